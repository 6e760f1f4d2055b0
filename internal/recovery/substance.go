package recovery

import (
	"fmt"
	"strings"
)

// Substance is an addictive substance that can be tracked. The value is the
// display name and is what gets persisted.
type Substance string

const (
	SubstanceAlcohol                Substance = "Alcohol"
	SubstanceNicotine               Substance = "Nicotine"
	SubstanceOpioids                Substance = "Opioids"
	SubstanceBenzodiazepines        Substance = "Benzodiazepines"
	SubstanceAmphetamines           Substance = "Amphetamines"
	SubstanceCathinones             Substance = "Cathinones"
	SubstanceGabapentinoids         Substance = "Gabapentinoids"
	SubstanceBarbiturates           Substance = "Barbiturates"
	SubstancePsychedelics           Substance = "Psychedelics"
	SubstanceDissociatives          Substance = "Dissociatives"
	SubstanceCannabis               Substance = "Cannabis"
	SubstanceCocaine                Substance = "Cocaine"
	SubstanceHallucinogens          Substance = "Hallucinogens"
	SubstanceInhalants              Substance = "Inhalants"
	SubstanceMethamphetamine        Substance = "Methamphetamine"
	SubstancePrescriptionStimulants Substance = "Prescription Stimulants"
	SubstanceSteroids               Substance = "Steroids"
	SubstanceSyntheticCannabinoids  Substance = "Synthetic Cannabinoids"
	SubstanceSyntheticCathinones    Substance = "Synthetic Cathinones"
	SubstanceSyntheticOpioids       Substance = "Synthetic Opioids"
)

var substanceCatalog = [...]struct {
	substance   Substance
	description string
}{
	{SubstanceAlcohol, "A psychoactive substance that is commonly consumed in beverages such as beer, wine, and spirits."},
	{SubstanceNicotine, "An addictive chemical found in tobacco products such as cigarettes, cigars, and e-cigarettes."},
	{SubstanceOpioids, "A class of drugs that include prescription medications such as oxycodone, hydrocodone, and illicit substances like heroin."},
	{SubstanceBenzodiazepines, "A type of sedative medication prescribed for anxiety disorders and insomnia, with the potential for dependence and addiction."},
	{SubstanceAmphetamines, "A group of stimulant drugs that are commonly used to treat attention deficit hyperactivity disorder (ADHD) and narcolepsy."},
	{SubstanceCathinones, "Synthetic stimulant drugs that are chemically related to amphetamines, often sold as 'bath salts' or 'research chemicals.'"},
	{SubstanceGabapentinoids, "Medications used to treat epilepsy, neuropathic pain, and other conditions, with potential for abuse and dependence."},
	{SubstanceBarbiturates, "Central nervous system depressants that are prescribed for anxiety, insomnia, and seizure disorders, but can be highly addictive."},
	{SubstancePsychedelics, "A class of hallucinogenic drugs that alter perception, mood, and cognitive processes, including substances like LSD, psilocybin, and MDMA."},
	{SubstanceDissociatives, "Substances that induce dissociative states, producing feelings of detachment from oneself and one's surroundings, including drugs like ketamine and PCP."},
	{SubstanceCannabis, "A psychoactive drug derived from the cannabis plant, commonly known as marijuana or weed."},
	{SubstanceCocaine, "A powerful stimulant drug derived from the coca plant, often snorted, smoked, or injected for its euphoric effects."},
	{SubstanceHallucinogens, "Substances that cause hallucinations and distortions in perception, including substances like peyote, DMT, and salvia."},
	{SubstanceInhalants, "Chemical vapors that produce mind-altering effects when inhaled, commonly found in household products like glue, paint, and gasoline."},
	{SubstanceMethamphetamine, "A potent central nervous system stimulant that is highly addictive, commonly known as meth."},
	{SubstancePrescriptionStimulants, "Medications used to treat ADHD and narcolepsy, including drugs like Adderall, Ritalin, and Vyvanse."},
	{SubstanceSteroids, "Synthetic drugs that mimic the effects of testosterone and other hormones, commonly used to enhance athletic performance."},
	{SubstanceSyntheticCannabinoids, "Man-made chemicals that are sprayed on dried plant material and smoked for their psychoactive effects, marketed as 'synthetic marijuana' or 'spice.'"},
	{SubstanceSyntheticCathinones, "Synthetic stimulant drugs that are similar to cathinones found in the khat plant, often sold as 'bath salts' or 'legal highs.'"},
	{SubstanceSyntheticOpioids, "Lab-made drugs that mimic the effects of natural opioids, often more potent and dangerous than traditional opioids."},
}

// Substances returns every known substance in catalog order.
func Substances() []Substance {
	out := make([]Substance, len(substanceCatalog))
	for i, e := range substanceCatalog {
		out[i] = e.substance
	}
	return out
}

func (s Substance) IsValid() bool {
	return s.Description() != ""
}

// Description returns the catalog text for s, or "" when s is unknown.
func (s Substance) Description() string {
	for _, e := range substanceCatalog {
		if e.substance == s {
			return e.description
		}
	}
	return ""
}

func (s Substance) String() string { return string(s) }

// ParseSubstance matches user input against the catalog. Case, spaces,
// dashes and underscores are ignored, so "Prescription Stimulants",
// "prescription-stimulants" and "prescriptionStimulants" all match.
func ParseSubstance(input string) (Substance, error) {
	want := substanceKey(input)
	if want == "" {
		return "", ValidationError{Field: "substance", Reason: "is required"}
	}
	for _, e := range substanceCatalog {
		if substanceKey(string(e.substance)) == want {
			return e.substance, nil
		}
	}
	return "", ValidationError{Field: "substance", Reason: fmt.Sprintf("unknown substance %q", input)}
}

func substanceKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
