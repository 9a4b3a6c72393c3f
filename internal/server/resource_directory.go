package server

type resourceEntry struct {
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	URL    string `json:"url,omitempty"`
	Region string `json:"region"`
}

var internationalResources = []resourceEntry{
	{
		Name:   "IASP Crisis Centres Directory",
		URL:    "https://www.iasp.info/resources/Crisis_Centres/",
		Region: "international",
	},
	{
		Name:   "Befrienders Worldwide",
		URL:    "https://befrienders.org",
		Region: "international",
	},
}

var countryResources = map[string][]resourceEntry{
	"india": {
		{Name: "Tele-MANAS (Govt. of India, 24x7)", Phone: "14416", Region: "India"},
		{Name: "KIRAN Mental Health Helpline", Phone: "1800-599-0019", Region: "India"},
		{Name: "AASRA", Phone: "+91-9820466726", URL: "http://www.aasra.info", Region: "India"},
		{Name: "iCall (TISS)", Phone: "+91-9152987821", URL: "https://icallhelpline.org", Region: "India"},
		{Name: "Vandrevala Foundation", Phone: "1860-2662-345", URL: "https://www.vandrevalafoundation.com", Region: "India"},
	},
	"united states": {
		{Name: "988 Suicide & Crisis Lifeline", Phone: "988", URL: "https://988lifeline.org", Region: "United States"},
		{Name: "Crisis Text Line", Phone: "Text HOME to 741741", Region: "United States"},
	},
	"united kingdom": {
		{Name: "Samaritans", Phone: "116 123", URL: "https://www.samaritans.org", Region: "United Kingdom"},
		{Name: "Shout", Phone: "Text SHOUT to 85258", Region: "United Kingdom"},
	},
	"canada": {
		{Name: "Talk Suicide Canada", Phone: "1-833-456-4566", URL: "https://talksuicide.ca", Region: "Canada"},
	},
	"australia": {
		{Name: "Lifeline Australia", Phone: "13 11 14", URL: "https://www.lifeline.org.au", Region: "Australia"},
		{Name: "Beyond Blue", Phone: "1300 22 4636", URL: "https://www.beyondblue.org.au", Region: "Australia"},
	},
	"nigeria": {
		{Name: "Nigeria Suicide Prevention Initiative", Phone: "+234-806-210-6493", Region: "Nigeria"},
		{Name: "Mentally Aware Nigeria Initiative", URL: "https://mentallyaware.org", Region: "Nigeria"},
	},
}

var stateResources = map[string]map[string][]resourceEntry{
	"india": {
		"tamil nadu": {
			{Name: "Sneha Foundation (Chennai)", Phone: "044-24640050", URL: "https://snehaindia.org", Region: "Tamil Nadu"},
			{Name: "Tamil Nadu Health Helpline", Phone: "104", Region: "Tamil Nadu"},
		},
		"maharashtra": {
			{Name: "Connecting Trust (Pune)", Phone: "+91-9922001122", Region: "Maharashtra"},
			{Name: "Samaritans Mumbai", Phone: "+91-8422984528", Region: "Maharashtra"},
		},
		"kerala": {
			{Name: "DISHA Helpline (Kerala)", Phone: "1056", Region: "Kerala"},
			{Name: "Maithri Kochi", Phone: "0484-2540530", Region: "Kerala"},
		},
		"karnataka": {
			{Name: "SAHAI Helpline (Bengaluru)", Phone: "080-25497777", Region: "Karnataka"},
		},
		"delhi": {
			{Name: "Sanjivini Society (Delhi)", Phone: "011-24311918", Region: "Delhi"},
		},
		"west bengal": {
			{Name: "Lifeline Foundation (Kolkata)", Phone: "033-24637401", Region: "West Bengal"},
		},
	},
	"united states": {
		"california": {
			{Name: "California Peer-Run Warm Line", Phone: "1-855-845-7415", Region: "California"},
		},
	},
}

// resolveResources returns a fresh ordered slice: country entries first (a
// guaranteed-reachable national number must lead), then state entries, then
// the international tier. Unknown locales still get the international tier,
// so the result is never empty.
func resolveResources(country, state string) []resourceEntry {
	countryKey := normalizeLocaleKey(country)
	stateKey := normalizeLocaleKey(state)

	result := make([]resourceEntry, 0, 8)
	if national, ok := countryResources[countryKey]; ok {
		result = append(result, national...)
		if regional, ok := stateResources[countryKey][stateKey]; ok {
			result = append(result, regional...)
		}
	}
	result = append(result, internationalResources...)
	return result
}
