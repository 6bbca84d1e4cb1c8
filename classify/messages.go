package classify

import "time"

// ========================================
// 用户提示目录 (User Message Catalog)
// ========================================

// messageEntry 单条提示文案模板
type messageEntry struct {
	title      string
	message    string
	suggestion string
	icon       string
}

// messageCatalog 按错误种类索引的泰文提示目录。
// AllKinds 中的每个种类都必须在此有一条文案，未识别的种类回退到 unknown 条目。
var messageCatalog = map[Kind]messageEntry{
	KindNetwork: {
		title:      "การเชื่อมต่อมีปัญหา",
		message:    "ไม่สามารถเชื่อมต่อกับเซิร์ฟเวอร์ได้",
		suggestion: "กรุณาตรวจสอบการเชื่อมต่ออินเทอร์เน็ต แล้วลองใหม่อีกครั้ง",
		icon:       "🌐",
	},
	KindNetworkOffline: {
		title:      "ไม่มีการเชื่อมต่ออินเทอร์เน็ต",
		message:    "อุปกรณ์ของคุณออฟไลน์อยู่ ไม่สามารถติดต่อเซิร์ฟเวอร์ได้",
		suggestion: "กรุณาเชื่อมต่อ Wi-Fi หรือเครือข่ายมือถือ แล้วลองใหม่",
		icon:       "📴",
	},
	KindNetworkTimeout: {
		title:      "การเชื่อมต่อใช้เวลานานเกินไป",
		message:    "เซิร์ฟเวอร์ตอบสนองช้ากว่าปกติ",
		suggestion: "กรุณารอสักครู่ แล้วลองใหม่อีกครั้ง",
		icon:       "⏱️",
	},
	KindAuthRequired: {
		title:      "กรุณาเข้าสู่ระบบ",
		message:    "ต้องเข้าสู่ระบบก่อนใช้งานส่วนนี้",
		suggestion: "กรุณาเข้าสู่ระบบด้วยบัญชีของคุณ",
		icon:       "🔐",
	},
	KindAuthExpired: {
		title:      "เซสชันหมดอายุ",
		message:    "การเข้าสู่ระบบของคุณหมดอายุแล้ว",
		suggestion: "กรุณาเข้าสู่ระบบใหม่อีกครั้ง",
		icon:       "⏰",
	},
	KindPermissionDenied: {
		title:      "ไม่มีสิทธิ์เข้าถึง",
		message:    "บัญชีของคุณไม่มีสิทธิ์ทำรายการนี้",
		suggestion: "หากต้องการสิทธิ์เพิ่มเติม กรุณาติดต่อผู้ดูแลระบบ",
		icon:       "🚫",
	},
	KindFirestoreUnavailable: {
		title:      "ระบบไม่พร้อมใช้งานชั่วคราว",
		message:    "เซิร์ฟเวอร์ฐานข้อมูลไม่ตอบสนอง ระบบกำลังลองใหม่ให้อัตโนมัติ",
		suggestion: "กรุณารอสักครู่ หากยังใช้งานไม่ได้ให้ลองใหม่ภายหลัง",
		icon:       "🔧",
	},
	KindFirestoreQuota: {
		title:      "ระบบมีผู้ใช้งานหนาแน่น",
		message:    "ปริมาณการใช้งานเกินขีดจำกัดชั่วคราว",
		suggestion: "กรุณารอสักครู่ แล้วลองใหม่อีกครั้ง",
		icon:       "📊",
	},
	KindValidationRequired: {
		title:      "กรอกข้อมูลไม่ครบ",
		message:    "ยังมีช่องที่จำเป็นต้องกรอกเหลืออยู่",
		suggestion: "กรุณากรอกข้อมูลให้ครบทุกช่องที่มีเครื่องหมาย *",
		icon:       "📝",
	},
	KindValidationFormat: {
		title:      "รูปแบบข้อมูลไม่ถูกต้อง",
		message:    "ข้อมูลบางช่องไม่ตรงตามรูปแบบที่กำหนด",
		suggestion: "กรุณาตรวจสอบข้อมูล แล้วแก้ไขให้ถูกต้อง",
		icon:       "✏️",
	},
	KindValidationDuplicate: {
		title:      "ข้อมูลซ้ำในระบบ",
		message:    "ข้อมูลนี้มีอยู่ในระบบแล้ว",
		suggestion: "กรุณาตรวจสอบรายการเดิม หรือใช้ข้อมูลอื่น",
		icon:       "📋",
	},
	KindProfileNotFound: {
		title:      "ไม่พบข้อมูลผู้ใช้",
		message:    "ยังไม่มีโปรไฟล์ของคุณในระบบ",
		suggestion: "กรุณาสร้างโปรไฟล์ก่อนยืมอุปกรณ์",
		icon:       "👤",
	},
	KindProfileIncomplete: {
		title:      "ข้อมูลโปรไฟล์ไม่ครบ",
		message:    "โปรไฟล์ของคุณยังขาดข้อมูลที่จำเป็น",
		suggestion: "กรุณากรอกข้อมูลโปรไฟล์ให้ครบถ้วน",
		icon:       "📄",
	},
	KindProfileDuplicate: {
		title:      "มีโปรไฟล์นี้อยู่แล้ว",
		message:    "รหัสนักศึกษาหรืออีเมลนี้ถูกใช้สร้างโปรไฟล์แล้ว",
		suggestion: "กรุณาเข้าสู่ระบบด้วยบัญชีเดิม หรือติดต่อผู้ดูแลระบบ",
		icon:       "👥",
	},
	KindUnknown: {
		title:      "เกิดข้อผิดพลาด",
		message:    "พบปัญหาที่ไม่คาดคิด ระบบได้บันทึกข้อมูลไว้แล้ว",
		suggestion: "กรุณาลองใหม่อีกครั้ง หากยังไม่ได้ให้ติดต่อผู้ดูแลระบบ",
		icon:       "⚠️",
	},
}

// messageFor 生成分类结论对应的用户提示
func messageFor(cls Classification) Message {
	tpl, ok := messageCatalog[cls.Kind]
	if !ok {
		tpl = messageCatalog[KindUnknown]
	}
	return Message{
		Title:      tpl.title,
		Message:    tpl.message,
		Suggestion: tpl.suggestion,
		Icon:       tpl.icon,
		Severity:   cls.Severity,
		Retryable:  cls.Retryable,
		Timestamp:  time.Now(),
	}
}
