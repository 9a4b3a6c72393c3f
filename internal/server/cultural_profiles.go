package server

import "strings"

type culturalProfile struct {
	Country      string
	State        string
	GuidanceText string
	Tone         string
}

const genericCulturalGuidance = "Be warm, inclusive and non-judgmental. " +
	"Avoid assumptions about the person's family structure, religion or community. " +
	"Respect that seeking help can feel difficult in many cultures."

var countryCulturalProfiles = map[string]culturalProfile{
	"india": {
		Country: "India",
		GuidanceText: "Family and community opinions often carry heavy weight; academic and career " +
			"pressure from parents is a common stressor. Mental health conversations may feel " +
			"stigmatized, so normalize seeking support without criticizing the family. " +
			"Avoid any reference to caste or community hierarchy.",
		Tone: "respectful, warm, family-aware",
	},
	"united states": {
		Country: "United States",
		GuidanceText: "Independence and self-reliance are often emphasized; financial stress, " +
			"insurance worries and social isolation are common themes. Therapy is widely known " +
			"but access varies, so suggest low-cost and campus options where relevant.",
		Tone: "direct, encouraging, practical",
	},
	"united kingdom": {
		Country: "United Kingdom",
		GuidanceText: "Understatement is common; distress may be minimised in conversation. " +
			"NHS services exist but have waiting lists, so acknowledge that getting help can take time.",
		Tone: "gentle, understated, steady",
	},
	"canada": {
		Country: "Canada",
		GuidanceText: "Multicultural context; avoid assuming a single cultural background. " +
			"Provincial health services differ, so keep guidance general.",
		Tone: "calm, inclusive, reassuring",
	},
	"australia": {
		Country: "Australia",
		GuidanceText: "Casual register is usually welcome. Rural isolation and drought-linked " +
			"stress affect many communities outside cities.",
		Tone: "casual, open, grounded",
	},
	"nigeria": {
		Country: "Nigeria",
		GuidanceText: "Faith and extended family are central for many people; mental health " +
			"support may be framed through community and religious structures. Normalize " +
			"professional help alongside, not against, those structures.",
		Tone: "respectful, faith-aware, hopeful",
	},
}

// State entries refine the country baseline; they are appended, never substituted.
var stateCulturalGuidance = map[string]map[string]string{
	"india": {
		"tamil nadu": "Board exam results and engineering/medical entrance pressure are intense " +
			"stressors for students here; Tamil may be the language of comfort at home.",
		"maharashtra": "Urban work migration and competitive exam coaching culture (Pune, Mumbai) " +
			"add financial and academic pressure on young people.",
		"kerala": "High literacy and high expectations coexist; Gulf migration splits many " +
			"families across countries.",
		"karnataka": "Bengaluru's tech work culture brings long hours and relocation loneliness " +
			"for many young adults.",
		"delhi": "Competitive coaching hubs and crowded living increase academic stress; " +
			"air quality and commute strain come up often.",
		"west bengal": "Academic tradition carries strong family expectations; Bengali may be " +
			"the language of comfort at home.",
		"punjab": "Emigration pressure and farming household stress are recurring themes.",
	},
	"united states": {
		"california": "High cost of living and tech/entertainment industry pressure are common themes.",
		"new york":   "Fast pace and financial pressure are frequent stressors.",
	},
	"australia": {
		"new south wales": "Regional areas outside Sydney can feel far from services.",
	},
}

// lookupCulturalProfile never fails: unknown locations get the generic profile.
func lookupCulturalProfile(country, state string) culturalProfile {
	countryKey := normalizeLocaleKey(country)
	profile, ok := countryCulturalProfiles[countryKey]
	if !ok {
		return culturalProfile{
			Country:      strings.TrimSpace(country),
			GuidanceText: genericCulturalGuidance,
			Tone:         "warm, inclusive",
		}
	}

	stateKey := normalizeLocaleKey(state)
	if stateKey != "" {
		if refinements, ok := stateCulturalGuidance[countryKey]; ok {
			if extra, ok := refinements[stateKey]; ok {
				profile.State = strings.TrimSpace(state)
				profile.GuidanceText = profile.GuidanceText + " " + extra
			}
		}
	}
	return profile
}

func normalizeLocaleKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(value)), " "))
}
