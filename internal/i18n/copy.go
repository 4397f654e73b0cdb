package i18n

// Copy is the UI text for one language, keyed by label.
type Copy map[string]string

var copies = map[string]Copy{
	English: {
		"nav.services":    "Services",
		"nav.work":        "Work",
		"nav.process":     "Process",
		"nav.contact":     "Contact",
		"nav.admin":       "Admin",
		"nav.language":    "日本語",
		"section.why":     "Why us",
		"section.process": "How we work",
		"section.work":    "Recent work",
		"contact.email":   "Email",
		"contact.phone":   "Phone",
		"contact.book":    "Book a time",
		"admin.title":     "Content editor",
		"admin.signin":    "Sign in",
		"admin.signout":   "Sign out",
		"admin.email":     "Email",
		"admin.password":  "Password",
		"admin.save":      "Save",
		"admin.saving":    "Saving…",
		"admin.hero":      "Hero",
		"admin.services":  "Services",
		"admin.projects":  "Projects",
		"admin.process":   "Process",
		"admin.contact":   "Contact",
		"admin.diffs":     "Differentiators (one per line)",
		"admin.bullets":   "Bullets (one per line)",
		"admin.stack":     "Stack (comma separated)",
		"admin.add":       "Add",
		"admin.conflict":  "The published content changed while you were editing.",
		"admin.load":      "Load latest",
		"admin.invoice":   "Send invoice",
		"admin.amount":    "Amount (USD)",
		"admin.name":      "Name",
		"admin.desc":      "Description",
		"admin.unsaved":   "Unsaved changes",
		"admin.hosted":    "Sign in with your account to edit content.",
		"admin.hostedcta": "Continue to sign in",
	},
	Japanese: {
		"nav.services":    "サービス",
		"nav.work":        "実績",
		"nav.process":     "進め方",
		"nav.contact":     "お問い合わせ",
		"nav.admin":       "管理",
		"nav.language":    "English",
		"section.why":     "選ばれる理由",
		"section.process": "進め方",
		"section.work":    "最近の実績",
		"contact.email":   "メール",
		"contact.phone":   "電話",
		"contact.book":    "日程を予約",
		"admin.title":     "コンテンツ編集",
		"admin.signin":    "ログイン",
		"admin.signout":   "ログアウト",
		"admin.email":     "メールアドレス",
		"admin.password":  "パスワード",
		"admin.save":      "保存",
		"admin.saving":    "保存中…",
		"admin.hero":      "ヒーロー",
		"admin.services":  "サービス",
		"admin.projects":  "プロジェクト",
		"admin.process":   "進め方",
		"admin.contact":   "連絡先",
		"admin.diffs":     "強み（1行に1つ）",
		"admin.bullets":   "箇条書き（1行に1つ）",
		"admin.stack":     "技術スタック（カンマ区切り）",
		"admin.add":       "追加",
		"admin.conflict":  "編集中に公開コンテンツが更新されました。",
		"admin.load":      "最新を読み込む",
		"admin.invoice":   "請求書を送信",
		"admin.amount":    "金額（USD）",
		"admin.name":      "氏名",
		"admin.desc":      "説明",
		"admin.unsaved":   "未保存の変更があります",
		"admin.hosted":    "アカウントでログインして編集してください。",
		"admin.hostedcta": "ログインへ進む",
	},
}

// For returns the copy for lang, falling back to English.
func For(lang string) Copy {
	if c, ok := copies[lang]; ok {
		return c
	}
	return copies[English]
}

// T looks up key, returning the key itself when it has no translation.
func (c Copy) T(key string) string {
	if s, ok := c[key]; ok {
		return s
	}
	return key
}
