package voice

// DefaultLanguage is the language whose rules are used when a supported
// language is missing a specific rule entry.
const DefaultLanguage = "hi-IN"

// defaultMaxWords is the shaped-response word ceiling for languages
// without an explicit override.
const defaultMaxWords = 30

// languageRules holds the per-language data tables: display name, word
// budget, shaping rules, and the mock engine's localized material. The
// tag set is closed; anything outside it is rejected by the orchestrator.
type languageRules struct {
	Name             string
	MaxWords         int // 0 means defaultMaxWords
	ContinueCue      string
	Fillers          []string
	SampleQueries    []string
	FallbackAdvisory string
	DemoNotice       string
}

var languages = map[string]languageRules{
	"hi-IN": {
		Name:        "Hindi",
		MaxWords:    35,
		ContinueCue: "और बताऊं?",
		Fillers: []string{
			"नमस्कार किसान भाई!",
			"नमस्ते!",
			"मैं आपकी मदद करने के लिए यहाँ हूँ।",
		},
		SampleQueries: []string{
			"मेरी गेहूं की फसल में पीले धब्बे आ गए हैं, क्या करना चाहिए?",
			"टमाटर के पौधे मुरझा रहे हैं, क्या समस्या हो सकती है?",
			"कपास में सफेद मक्खी का अटैक है, कैसे रोकूं?",
			"धान की बुआई का सही समय क्या है?",
			"आज मंडी में प्याज का भाव क्या है?",
			"खाद की कमी से पत्ते पीले हो रहे हैं, क्या डालूं?",
		},
		FallbackAdvisory: "नमस्कार किसान भाई! मैं आपकी मदद करने के लिए यहाँ हूँ। कृपया अपने खेती से जुड़े सवाल पूछें। चाहे वो बीज, खाद, पानी, या कीड़े-मकोड़े की समस्या हो, मैं आपको सही सलाह दूंगा।",
		DemoNotice:       "माफ करें, मुझे आपकी बात समझने में कुछ परेशानी हुई है। कृपया दोबारा कोशिश करें।",
	},
	"en-IN": {
		Name:        "English (India)",
		ContinueCue: "Continue?",
		Fillers: []string{
			"hello farmer!",
			"i am here to help you",
			"as an ai",
		},
		SampleQueries: []string{
			"My wheat crop has yellow spots appearing, what should I do?",
			"The tomato plants are wilting, what could be the problem?",
			"There is a whitefly attack on cotton, how do I control it?",
			"What is the right time for rice sowing?",
			"What is today's onion price in the market?",
			"Leaves are turning yellow due to nutrient deficiency, what fertilizer should I use?",
		},
		FallbackAdvisory: "Hello farmer! I am here to help you with your farming questions. Please ask me about seeds, fertilizers, irrigation, pest control, or any other agricultural concerns you may have.",
		DemoNotice:       "Sorry, I had trouble understanding you. Please try again.",
	},
	"bn-IN": {
		Name:        "Bengali",
		ContinueCue: "আরও বলব?",
		Fillers: []string{
			"নমস্কার কৃষক ভাই!",
		},
		SampleQueries: []string{
			"আমার গমের ফসলে হলুদ দাগ দেখা দিয়েছে, কী করব?",
			"টমেটো গাছ শুকিয়ে যাচ্ছে, সমস্যা কী হতে পারে?",
			"তুলায় সাদা মাছি আক্রমণ করেছে, কীভাবে রোধ করব?",
		},
		FallbackAdvisory: "নমস্কার কৃষক ভাই! আমি আপনার কৃষি সমস্যার সমাধানে সাহায্য করতে এসেছি। বীজ, সার, জল বা কীটপতঙ্গ নিয়ন্ত্রণ সম্পর্কে যে কোনো প্রশ্ন করুন।",
		DemoNotice:       "দুঃখিত, আমি আপনার কথা বুঝতে সমস্যা হয়েছে। অনুগ্রহ করে আবার চেষ্টা করুন।",
	},
	"te-IN": {
		Name:        "Telugu",
		MaxWords:    25,
		ContinueCue: "ఇంకా చెప్పాలా?",
		Fillers: []string{
			"నమస్కారం రైతు గారు!",
		},
		SampleQueries: []string{
			"నా గోధుమ పంటలో పసుపు మచ్చలు కనిపిస్తున్నాయి, ఏమి చేయాలి?",
			"టమాటో మొక్కలు వాడిపోతున్నాయి, సమస్య ఏమిటి?",
			"పత్తిలో తెల్ల ఈగలు దాడి చేస్తున్నాయి, ఎలా నియంత్రించాలి?",
		},
		FallbackAdvisory: "నమస్కారం రైతు గారు! నేను మీ వ్యవసాయ సమస్యలకు సహాయం చేయడానికి ఇక్కడ ఉన్నాను. విత్తనాలు, ఎరువులు, నీటిపారుదల లేదా కీటక నియంత్రణ గురించి ప్రశ్నలు అడగండి।",
		DemoNotice:       "క్షమించండి, మీ మాట అర్థం చేసుకోవడంలో నాకు ఇబ్బంది ఉంది. దయచేసి మళ్లీ ప్రయత్నించండి।",
	},
	"mr-IN": {
		Name:        "Marathi",
		ContinueCue: "अजून सांगू?",
		SampleQueries: []string{
			"माझ्या गव्हाच्या पिकावर पिवळे डाग दिसत आहेत, काय करावे?",
			"कांद्याला आज बाजारात काय भाव आहे?",
		},
		DemoNotice: "माफ करा, मला तुमचे म्हणणे समजण्यात अडचण आली आहे. कृपया पुन्हा प्रयत्न करा.",
	},
	"ta-IN": {
		Name:        "Tamil",
		MaxWords:    25,
		ContinueCue: "தொடரவா?",
		SampleQueries: []string{
			"என் நெல் பயிரில் பழுப்பு புள்ளிகள் தெரிகின்றன, என்ன செய்வது?",
			"தக்காளி செடிகள் வாடுகின்றன, என்ன பிரச்சனை?",
		},
		DemoNotice: "மன்னிக்கவும், உங்கள் பேச்சைப் புரிந்துகொள்வதில் எனக்கு சிரமம் ஏற்பட்டது. தயவுசெய்து மீண்டும் முயற்சிக்கவும்.",
	},
	"gu-IN": {
		Name:        "Gujarati",
		ContinueCue: "વધુ કહું?",
		DemoNotice:  "માફ કરશો, મને તમારી વાત સમજવામાં મુશ્કેલી પડી છે. કૃપા કરીને ફરીથી પ્રયાસ કરો.",
	},
	"kn-IN": {
		Name:        "Kannada",
		MaxWords:    25,
		ContinueCue: "ಇನ್ನೂ ಹೇಳಲೇ?",
		DemoNotice:  "ಕ್ಷಮಿಸಿ, ನಿಮ್ಮ ಮಾತನ್ನು ಅರ್ಥ ಮಾಡಿಕೊಳ್ಳುವಲ್ಲಿ ನನಗೆ ತೊಂದರೆ ಆಗಿದೆ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
	},
	"ml-IN": {
		Name:        "Malayalam",
		MaxWords:    25,
		ContinueCue: "തുടരട്ടെ?",
		DemoNotice:  "ക്ഷമിക്കണം, നിങ്ങളുടെ സംസാരം മനസ്സിലാക്കാൻ എനിക്ക് ബുദ്ധിമുട്ട് ഉണ്ടായി. ദയവായി വീണ്ടും ശ്രമിക്കുക.",
	},
	"pa-IN": {
		Name:        "Punjabi",
		ContinueCue: "ਹੋਰ ਦੱਸਾਂ?",
		DemoNotice:  "ਮਾਫ਼ ਕਰਨਾ, ਮੈਨੂੰ ਤੁਹਾਡੀ ਗੱਲ ਸਮਝਣ ਵਿੱਚ ਮੁਸ਼ਕਲ ਹੋਈ ਹੈ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
	},
	"or-IN": {
		Name:        "Odia",
		ContinueCue: "ଆଉ କହିବି?",
		DemoNotice:  "ଦୁଃଖିତ, ମୁଁ ଆପଣଙ୍କ କଥା ବୁଝିବାରେ ଅସୁବିଧା ଭୋଗୁଛି। ଦୟାକରି ପୁନର୍ବାର ଚେଷ୍ଟା କରନ୍ତୁ।",
	},
}

// Supported reports whether the language tag is in the closed supported set.
func Supported(tag string) bool {
	_, ok := languages[tag]
	return ok
}

// SupportedLanguages returns a tag -> display name map of every supported language.
func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(languages))
	for tag, r := range languages {
		out[tag] = r.Name
	}
	return out
}

// LanguageName returns the display name for a tag, or the tag itself when unknown.
func LanguageName(tag string) string {
	if r, ok := languages[tag]; ok {
		return r.Name
	}
	return tag
}

// rulesFor returns the rule set for a tag, falling back to DefaultLanguage
// for unknown tags. Missing languages never fail lookups.
func rulesFor(tag string) languageRules {
	if r, ok := languages[tag]; ok {
		return r
	}
	return languages[DefaultLanguage]
}

// MaxWordsFor returns the shaped-response word budget for a language.
func MaxWordsFor(tag string) int {
	if r := rulesFor(tag); r.MaxWords > 0 {
		return r.MaxWords
	}
	return defaultMaxWords
}

// continueCueFor returns the localized truncation cue, falling back to the
// default language's cue when a rule set has none.
func continueCueFor(tag string) string {
	if r := rulesFor(tag); r.ContinueCue != "" {
		return r.ContinueCue
	}
	return languages[DefaultLanguage].ContinueCue
}

// sampleQueriesFor returns the mock query pool, falling back to the default
// language's pool so it is never empty.
func sampleQueriesFor(tag string) []string {
	if r := rulesFor(tag); len(r.SampleQueries) > 0 {
		return r.SampleQueries
	}
	return languages[DefaultLanguage].SampleQueries
}

// fallbackAdvisoryFor returns the fixed localized advisory template used when
// even the generative backend is unusable.
func fallbackAdvisoryFor(tag string) string {
	if r := rulesFor(tag); r.FallbackAdvisory != "" {
		return r.FallbackAdvisory
	}
	return languages[DefaultLanguage].FallbackAdvisory
}

// DemoNoticeFor returns the localized "could not understand you" notice used
// as the user-facing warning when the pipeline falls back.
func DemoNoticeFor(tag string) string {
	if r := rulesFor(tag); r.DemoNotice != "" {
		return r.DemoNotice
	}
	return languages[DefaultLanguage].DemoNotice
}
