package server

import (
	"math/rand"
	"strings"
)

type concernCategory string

const (
	concernExamAnxiety    concernCategory = "exam-anxiety"
	concernAcademicStress concernCategory = "academic-stress"
	concernRelationship   concernCategory = "relationship"
	concernFamilyConflict concernCategory = "family-conflict"
	concernSleep          concernCategory = "sleep"
	concernLoneliness     concernCategory = "loneliness"
	concernGeneral        concernCategory = "general"
)

// Ordered: more specific categories match before broader ones, so "exam"
// wins over the generic study keywords.
var concernKeywordSets = []struct {
	category concernCategory
	keywords []string
}{
	{concernExamAnxiety, []string{"exam", "test tomorrow", "results", "marks", "board", "neet", "jee", "entrance"}},
	{concernAcademicStress, []string{"study", "studies", "school", "college", "homework", "assignment", "grades", "semester", "syllabus"}},
	{concernRelationship, []string{"boyfriend", "girlfriend", "breakup", "broke up", "relationship", "crush", "partner"}},
	{concernFamilyConflict, []string{"parents", "father", "mother", "family", "at home", "papa", "mummy"}},
	{concernSleep, []string{"sleep", "insomnia", "awake all night", "nightmares"}},
	{concernLoneliness, []string{"lonely", "alone", "no friends", "isolated", "left out"}},
}

func deriveConcernCategory(text string) concernCategory {
	normalized := normalizeForMatch(text)
	if normalized == "" {
		return concernGeneral
	}
	for _, set := range concernKeywordSets {
		if containsAnyKeyword(normalized, set.keywords) {
			return set.category
		}
	}
	return concernGeneral
}

// Pre-written response pools keyed by language then category. Every
// supported language must carry a non-empty "general" pool; unsupported
// combinations fall through to it, never to an empty string.
var fallbackPools = map[string]map[concernCategory][]string{
	"en": {
		concernExamAnxiety: {
			"Exams can feel like everything is riding on them, but one result never defines you. Take a slow breath; what feels heaviest about it right now?",
			"Exam pressure is exhausting, and it makes sense that you're stressed. Small breaks and enough sleep genuinely help more than all-night revision.",
		},
		concernAcademicStress: {
			"Schoolwork piling up can feel suffocating. You don't have to solve all of it today; picking one small task is a real start.",
			"Academic pressure is one of the most common things people your situation talk about. What would make the load feel a little lighter this week?",
		},
		concernRelationship: {
			"Relationship pain is real pain, and it deserves to be taken seriously. It's okay to feel hurt.",
			"It takes courage to talk about relationship trouble. Whatever happened, your feelings about it are valid.",
		},
		concernFamilyConflict: {
			"Tension at home can make everywhere feel unsafe. Your feelings in this are valid, even if others dismiss them.",
			"Family conflict is draining because you can't simply walk away from it. Be gentle with yourself today.",
		},
		concernSleep: {
			"Nights feel longer when your mind won't switch off. A steady wind-down routine, even a short one, can slowly help.",
			"Poor sleep makes everything else harder. You're not lazy or broken; your body is asking for rest it isn't getting.",
		},
		concernLoneliness: {
			"Feeling alone is one of the hardest feelings there is, and reaching out the way you just did is a real step.",
			"Loneliness can convince you that no one cares; that feeling is painful but it is not a fact.",
		},
		concernGeneral: {
			"Thank you for sharing that. Whatever you're carrying right now, you don't have to carry it alone.",
			"I'm here with you. Sometimes just putting a feeling into words is the hardest part, and you've done it.",
		},
	},
	"hi": {
		concernExamAnxiety: {
			"परीक्षा का दबाव बहुत भारी लग सकता है, पर एक परिणाम आपकी पहचान नहीं है। धीरे सांस लीजिए।",
			"परीक्षा की चिंता होना स्वाभाविक है। छोटे-छोटे ब्रेक और पूरी नींद सच में मदद करते हैं।",
		},
		concernAcademicStress: {
			"पढ़ाई का बोझ कभी-कभी बहुत भारी लगता है। आज बस एक छोटा काम चुनना भी एक शुरुआत है।",
		},
		concernRelationship: {
			"रिश्ते का दर्द असली दर्द है। आपकी भावनाएं मायने रखती हैं।",
		},
		concernFamilyConflict: {
			"घर की तनातनी मन को थका देती है। आपकी भावनाएं जायज़ हैं।",
		},
		concernSleep: {
			"जब मन शांत नहीं होता तो रातें लंबी लगती हैं। सोने से पहले एक छोटी सी आरामदायक आदत धीरे-धीरे मदद करती है।",
		},
		concernLoneliness: {
			"अकेलापन बहुत भारी एहसास है। आपने बात की, यह अपने आप में एक बड़ा कदम है।",
		},
		concernGeneral: {
			"अपनी बात साझा करने के लिए धन्यवाद। आप अकेले नहीं हैं।",
			"मैं आपके साथ हूं। भावनाओं को शब्द देना ही सबसे मुश्किल हिस्सा होता है, और वह आपने कर लिया।",
		},
	},
}

var fallbackAgeSentences = map[string]map[string]string{
	"en": {
		"teen":        "School years can feel overwhelming, and what you're feeling is taken seriously here.",
		"young-adult": "This stage of life piles on a lot of firsts at once, and it's okay to find that hard.",
		"adult":       "Balancing everything you're responsible for is genuinely difficult, and it's okay to need support.",
		"senior":      "Your experience matters, and so does how you're feeling right now.",
	},
	"hi": {
		"teen":        "स्कूल के साल भारी लग सकते हैं, और आपकी भावनाओं को यहां गंभीरता से लिया जाता है।",
		"young-adult": "जीवन के इस दौर में बहुत कुछ एक साथ आता है, इसे कठिन पाना ठीक है।",
		"adult":       "सारी जिम्मेदारियों को संभालना सच में मुश्किल है, सहारा चाहना ठीक है।",
		"senior":      "आपका अनुभव मायने रखता है, और आपकी भावनाएं भी।",
	},
}

var fallbackLocaleSentences = map[string]map[string]string{
	"en": {
		"india":   "If you ever want to talk to someone, free helplines like Tele-MANAS (14416) are available across India, any time.",
		"default": "If you ever want to talk to someone, free support lines are available in most countries, any time.",
	},
	"hi": {
		"india":   "अगर कभी किसी से बात करना चाहें, तो टेली-मानस (14416) जैसी मुफ्त हेल्पलाइन पूरे भारत में हर समय उपलब्ध हैं।",
		"default": "अगर कभी किसी से बात करना चाहें, तो मुफ्त सहायता सेवाएं हर समय उपलब्ध हैं।",
	},
}

// fallbackReply is the deterministic, network-free responder used when the
// generation backend is unavailable. Pool text is pre-vetted, so the result
// skips the output sanitizer.
func fallbackReply(category concernCategory, language string, ageYears int, locale respondLocale) string {
	lang := normalizeLanguage(language)
	pools, ok := fallbackPools[lang]
	if !ok {
		lang = "en"
		pools = fallbackPools[lang]
	}
	variants, ok := pools[category]
	if !ok || len(variants) == 0 {
		variants = pools[concernGeneral]
	}

	parts := make([]string, 0, 3)
	parts = append(parts, variants[rand.Intn(len(variants))])

	if bracket := ageBracket(ageYears); bracket != "" {
		if sentence, ok := fallbackAgeSentences[lang][bracket]; ok {
			parts = append(parts, sentence)
		}
	}

	localeSentences := fallbackLocaleSentences[lang]
	if sentence, ok := localeSentences[normalizeLocaleKey(locale.Country)]; ok {
		parts = append(parts, sentence)
	} else {
		parts = append(parts, localeSentences["default"])
	}

	return strings.Join(parts, " ")
}

func normalizeLanguage(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "hi", "hindi", "हिंदी", "हिन्दी":
		return "hi"
	default:
		return "en"
	}
}
