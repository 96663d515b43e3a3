package app

// Locale is one of the four supported interface languages, sent as
// the lang field on every backend request.
type Locale string

const (
	LocaleZhCN Locale = "zh_CN"
	LocaleZhTW Locale = "zh_TW"
	LocaleEn   Locale = "en"
	LocaleID   Locale = "id"
)

// Locales lists the supported locales in cycle order.
var Locales = []Locale{LocaleZhCN, LocaleZhTW, LocaleEn, LocaleID}

// UIText holds the interface strings for one locale.
type UIText struct {
	SelectLang        string
	InputPlaceholder  string
	Yes               string
	No                string
	Else              string
	Thinking          string
	Home              string
	ClearChat         string
	Regenerate        string
	Map               string
	ShowDebug         string
	HideDebug         string
	ConfirmSummary    string
	ApprovalYes       string
	ApprovalNo        string
	Confidence        string
	ReportTitle       string
	MedicalSummary    string
	PlainSummary      string
	RecommendedDepts  string
	NewSession        string
}

var uiText = map[Locale]UIText{
	LocaleZhCN: {
		SelectLang:       "界面语言：",
		InputPlaceholder: "输入您的回答…",
		Yes:              "是",
		No:               "否",
		Else:             "其他",
		Thinking:         "思考中…",
		Home:             "首页",
		ClearChat:        "清空聊天",
		Regenerate:       "重新生成回复",
		Map:              "地图",
		ShowDebug:        "显示调试",
		HideDebug:        "隐藏调试",
		ConfirmSummary:   "请确认摘要",
		ApprovalYes:      "看起来不错",
		ApprovalNo:       "重新生成",
		Confidence:       "置信度：",
		ReportTitle:      "诊前报告",
		MedicalSummary:   "专业摘要",
		PlainSummary:     "简易摘要",
		RecommendedDepts: "推荐科室",
		NewSession:       "开始新会话",
	},
	LocaleZhTW: {
		SelectLang:       "介面語言：",
		InputPlaceholder: "輸入您的回答…",
		Yes:              "是",
		No:               "否",
		Else:             "其他",
		Thinking:         "思考中…",
		Home:             "主頁",
		ClearChat:        "清空聊天",
		Regenerate:       "重新生成回覆",
		Map:              "地圖",
		ShowDebug:        "顯示調試",
		HideDebug:        "隱藏調試",
		ConfirmSummary:   "請確認摘要",
		ApprovalYes:      "看起來不錯",
		ApprovalNo:       "重新生成",
		Confidence:       "置信度：",
		ReportTitle:      "診前報告",
		MedicalSummary:   "專業摘要",
		PlainSummary:     "簡易摘要",
		RecommendedDepts: "推薦科室",
		NewSession:       "開始新會話",
	},
	LocaleEn: {
		SelectLang:       "Language:",
		InputPlaceholder: "Type your answer…",
		Yes:              "YES",
		No:               "NO",
		Else:             "ELSE",
		Thinking:         "Thinking…",
		Home:             "Home",
		ClearChat:        "Clear Chat",
		Regenerate:       "Regenerate Response",
		Map:              "Map",
		ShowDebug:        "Show Debug",
		HideDebug:        "Hide Debug",
		ConfirmSummary:   "Please confirm the summary",
		ApprovalYes:      "Looks Good",
		ApprovalNo:       "Ask Again",
		Confidence:       "Confidence: ",
		ReportTitle:      "Pre-visit Report",
		MedicalSummary:   "Medical Summary",
		PlainSummary:     "Plain Summary",
		RecommendedDepts: "Recommended Departments",
		NewSession:       "Start New Session",
	},
	LocaleID: {
		SelectLang:       "Bahasa antarmuka:",
		InputPlaceholder: "Ketik jawaban Anda…",
		Yes:              "Ya",
		No:               "Tidak",
		Else:             "Lainnya",
		Thinking:         "Memikirkan…",
		Home:             "Beranda",
		ClearChat:        "Bersihkan Obrolan",
		Regenerate:       "Regenerasi Balasan",
		Map:              "Peta",
		ShowDebug:        "Tampilkan Debug",
		HideDebug:        "Sembunyikan Debug",
		ConfirmSummary:   "Harap konfirmasi ringkasan",
		ApprovalYes:      "Terlihat Bagus",
		ApprovalNo:       "Minta Lagi",
		Confidence:       "Keyakinan: ",
		ReportTitle:      "Laporan Pra-kunjungan",
		MedicalSummary:   "Ringkasan Medis",
		PlainSummary:     "Ringkasan Sederhana",
		RecommendedDepts: "Departemen yang Disarankan",
		NewSession:       "Mulai Sesi Baru",
	},
}

// Text returns the UI strings for a locale, falling back to
// simplified Chinese, the default interface language.
func Text(l Locale) UIText {
	if t, ok := uiText[l]; ok {
		return t
	}
	return uiText[LocaleZhCN]
}

// NextLocale returns the locale after l in cycle order.
func NextLocale(l Locale) Locale {
	for i, cur := range Locales {
		if cur == l {
			return Locales[(i+1)%len(Locales)]
		}
	}
	return Locales[0]
}
