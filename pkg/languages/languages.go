package languages

// Language 规范语言标识，所有调用方统一使用
type Language string

// 常用语言
const (
	Auto               Language = "auto"
	ChineseSimplified  Language = "zh-CN"
	ChineseTraditional Language = "zh-TW"
	English            Language = "en"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	Cantonese          Language = "yue"
	ClassicalChinese   Language = "wyw"
)

// String 实现 fmt.Stringer
func (l Language) String() string {
	return string(l)
}

// names 规范语言集合及英文名称，顺序即 All 的顺序
var names = []struct {
	lang Language
	name string
}{
	{Auto, "Detect language"},
	{"af", "Afrikaans"},
	{"am", "Amharic"},
	{"ar", "Arabic"},
	{"az", "Azerbaijani"},
	{"be", "Belarusian"},
	{"bg", "Bulgarian"},
	{"bn", "Bengali"},
	{"bs", "Bosnian"},
	{"ca", "Catalan"},
	{"ceb", "Cebuano"},
	{"co", "Corsican"},
	{"cs", "Czech"},
	{"cy", "Welsh"},
	{"da", "Danish"},
	{"de", "German"},
	{"el", "Greek"},
	{English, "English"},
	{"eo", "Esperanto"},
	{"es", "Spanish"},
	{"et", "Estonian"},
	{"eu", "Basque"},
	{"fa", "Persian"},
	{"fi", "Finnish"},
	{"fil", "Filipino"},
	{"fj", "Fijian"},
	{"fr", "French"},
	{"fy", "Frisian"},
	{"ga", "Irish"},
	{"gd", "Scots Gaelic"},
	{"gl", "Galician"},
	{"gu", "Gujarati"},
	{"ha", "Hausa"},
	{"haw", "Hawaiian"},
	{"he", "Hebrew"},
	{"hi", "Hindi"},
	{"hmn", "Hmong"},
	{"hr", "Croatian"},
	{"ht", "Haitian Creole"},
	{"hu", "Hungarian"},
	{"hy", "Armenian"},
	{"id", "Indonesian"},
	{"ig", "Igbo"},
	{"is", "Icelandic"},
	{"it", "Italian"},
	{Japanese, "Japanese"},
	{"jw", "Javanese"},
	{"ka", "Georgian"},
	{"kk", "Kazakh"},
	{"km", "Khmer"},
	{"kn", "Kannada"},
	{Korean, "Korean"},
	{"ku", "Kurdish"},
	{"ky", "Kyrgyz"},
	{"la", "Latin"},
	{"lb", "Luxembourgish"},
	{"lo", "Lao"},
	{"lt", "Lithuanian"},
	{"lv", "Latvian"},
	{"mg", "Malagasy"},
	{"mi", "Maori"},
	{"mk", "Macedonian"},
	{"ml", "Malayalam"},
	{"mn", "Mongolian"},
	{"mr", "Marathi"},
	{"ms", "Malay"},
	{"mt", "Maltese"},
	{"mww", "Hmong Daw"},
	{"my", "Myanmar (Burmese)"},
	{"ne", "Nepali"},
	{"nl", "Dutch"},
	{"no", "Norwegian"},
	{"ny", "Chichewa"},
	{"otq", "Querétaro Otomi"},
	{"pa", "Punjabi"},
	{"pl", "Polish"},
	{"ps", "Pashto"},
	{"pt", "Portuguese"},
	{"ro", "Romanian"},
	{"ru", "Russian"},
	{"sd", "Sindhi"},
	{"si", "Sinhala"},
	{"sk", "Slovak"},
	{"sl", "Slovenian"},
	{"sm", "Samoan"},
	{"sn", "Shona"},
	{"so", "Somali"},
	{"sq", "Albanian"},
	{"sr", "Serbian"},
	{"sr-Cyrl", "Serbian (Cyrillic)"},
	{"sr-Latn", "Serbian (Latin)"},
	{"st", "Sesotho"},
	{"su", "Sundanese"},
	{"sv", "Swedish"},
	{"sw", "Swahili"},
	{"ta", "Tamil"},
	{"te", "Telugu"},
	{"tg", "Tajik"},
	{"th", "Thai"},
	{"tl", "Tagalog"},
	{"tlh", "Klingon"},
	{"to", "Tongan"},
	{"tr", "Turkish"},
	{"ty", "Tahitian"},
	{"ug", "Uyghur"},
	{"uk", "Ukrainian"},
	{"ur", "Urdu"},
	{"uz", "Uzbek"},
	{"vi", "Vietnamese"},
	{ClassicalChinese, "Classical Chinese"},
	{"xh", "Xhosa"},
	{"yi", "Yiddish"},
	{"yo", "Yoruba"},
	{"yua", "Yucatec Maya"},
	{Cantonese, "Cantonese"},
	{ChineseSimplified, "Chinese (Simplified)"},
	{ChineseTraditional, "Chinese (Traditional)"},
	{"zu", "Zulu"},
}

var (
	all    []Language
	byName = make(map[Language]string, len(names))
)

func init() {
	all = make([]Language, 0, len(names))
	for _, n := range names {
		all = append(all, n.lang)
		byName[n.lang] = n.name
	}
}

// All 返回完整的规范语言集合（副本）
func All() []Language {
	out := make([]Language, len(all))
	copy(out, all)
	return out
}

// IsValid 判断是否属于规范语言集合
func IsValid(l Language) bool {
	_, ok := byName[l]
	return ok
}

// Name 返回语言的英文名称，未知语言返回空字符串
func Name(l Language) string {
	return byName[l]
}
