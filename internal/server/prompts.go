package server

import "fmt"

// confidenceThreshold is the model-reported confidence (0-100) above
// which the intake moves from questioning to summarization.
const confidenceThreshold = 75

// analysisSkipTurns caps the questioning phase: past this many turns
// the analysis stage is skipped and confidence pinned to the
// threshold.
const analysisSkipTurns = 7

// maxRefusals bounds how many times a rejected summary is re-asked
// before the session falls back to questioning.
const maxRefusals = 10

// langLabels maps wire locales to the language names inserted into
// prompts.
var langLabels = map[string]string{
	"zh_CN": "简体中文",
	"zh_TW": "繁體中文",
	"en":    "English",
	"id":    "Bahasa Indonesia",
}

// reconfirmQuestions is shown when the user rejects a proposed
// summary and the server asks again.
var reconfirmQuestions = map[string]string{
	"zh_CN": "请再次确认您是否同意生成完整报告？",
	"zh_TW": "請再次確認您是否同意生成完整報告？",
	"en":    "Please confirm again whether you agree to generate the full report.",
	"id":    "Mohon konfirmasi kembali apakah Anda setuju untuk membuat laporan lengkap.",
}

// departmentList is the closed set the professional summary picks
// recommended specialties from.
const departmentList = "外科、小儿外科、普通科、肠胃肝脏科、精神科、临床心理学、内科、耳鼻喉科、家庭医学、放射科、麻醉科、病理学、眼科、整形外科、骨科、泌尿外科、临床肿瘤科、血液及血液肿瘤科、妇产科、内分泌及糖尿科、风湿病科、神经外科、核子医学科、临床微生物及感染学、急症科、儿科、复康科、脑神经科、心脏科、肾病科、呼吸系统科、牙科、物理治疗、免疫及过敏病科、疼痛医学、皮肤及性病科、老人科、社会医学、中医、儿童免疫、过敏及传染病科、营养学、心胸肺外科、内科肿瘤科、妇科肿瘤科、解剖病理学、感染及传染病科、法医病理学、生殖医学科、职业医学、牙周治疗科、修复齿科专科、口腔颌面外科"

type promptSet struct {
	Analysis     string
	Plain        string
	Professional string
}

func langLabel(lang string) string {
	if label, ok := langLabels[lang]; ok {
		return label
	}
	return langLabels["zh_CN"]
}

func reconfirmQuestion(lang string) string {
	if q, ok := reconfirmQuestions[lang]; ok {
		return q
	}
	return reconfirmQuestions["zh_CN"]
}

// buildPrompts constructs the system prompts for the three pipeline
// stages, with the reply language baked in.
func buildPrompts(lang string) promptSet {
	label := langLabel(lang)

	analysis := fmt.Sprintf("You are a professional medical analysis AI.\n"+
		"Your task:\n"+
		"1. Evaluate the confidence level for the user's symptom; higher confidence means higher belief of what is causing the symptom (0-100)\n"+
		"2. Generate **one** concise follow-up question that only asks one thing (yes/no if possible).\n"+
		"Respond **in %s**; you must respond in that language.\n\n"+
		"Output JSON:\n{\n  \"analysis_text\": \"...\",\n  \"confidence_level\": number,\n  \"next_question\": \"...\"\n}", label)

	plain := fmt.Sprintf("You are a medical summarization AI. Given the conversation history, produce a "+
		"**patient-friendly summary**. Respond **in %s**; you must respond in that language.\n\n"+
		"Output JSON:\n{\n  \"plain_summary\": \"...\"\n}", label)

	professional := fmt.Sprintf("You are a professional doctor. Generate medical summaries of the user based on the chat log:\n"+
		"1. medical_summary (professional)\n"+
		"2. plain_summary (patient-friendly)\n"+
		"3. recommended_specialties (1-3 from the list, total confidence = 100)\n\n"+
		"Department list:\n%s\n\n"+
		"Respond **in %s**.\n\n"+
		"Output JSON:\n{\n  \"medical_summary\": \"...\",\n  \"plain_summary\": \"...\",\n  \"recommended_specialties\": [{\"科目\":\"...\", \"置信度\": number}]\n}", departmentList, label)

	return promptSet{Analysis: analysis, Plain: plain, Professional: professional}
}
