package i18n

// Message keys shared by handlers, the notifier and the dashboard page.
const (
	MsgAuthRequired        = "auth.required"
	MsgForbidden           = "auth.forbidden"
	MsgCSRFInvalid         = "auth.csrf_invalid"
	MsgUserNotFound        = "user.not_found"
	MsgInvalidJSON         = "request.invalid_json"
	MsgRateLimited         = "request.rate_limited"
	MsgInternal            = "request.internal"
	MsgActivityListFailed  = "activity.list_failed"
	MsgActivityCreateFail  = "activity.create_failed"
	MsgActivityFieldsReq   = "activity.fields_required"
	MsgActivityTypeInvalid = "activity.type_invalid"
	MsgActivityDescTooLong = "activity.description_too_long"
	MsgActivityTargetLong  = "activity.target_too_long"

	MsgContactInvalid      = "contact.invalid"
	MsgContactAccepted     = "contact.accepted"
	MsgContactFailed       = "contact.failed"
	MsgContactNameReq      = "contact.name.required"
	MsgContactNameMax      = "contact.name.max"
	MsgContactEmailReq     = "contact.email.required"
	MsgContactEmailFormat  = "contact.email.format"
	MsgContactEmailMax     = "contact.email.max"
	MsgContactSubjectReq   = "contact.subject.required"
	MsgContactSubjectMax   = "contact.subject.max"
	MsgContactMessageReq   = "contact.message.required"
	MsgContactMessageMin   = "contact.message.min"
	MsgContactMessageMax   = "contact.message.max"
	MsgContactNotFound     = "contact.not_found"
	MsgContactStatusBad    = "contact.status_invalid"
	MsgContactTransitionNo = "contact.transition_invalid"
	MsgContactChanged      = "contact.changed_concurrently"

	MsgSignInFailed = "signin.failed"

	MsgPageHomeTitle      = "page.home.title"
	MsgPageSignInTitle    = "page.signin.title"
	MsgPageSignInGoogle   = "page.signin.google"
	MsgPageDashboardTitle = "page.dashboard.title"
	MsgPageDashboardEmpty = "page.dashboard.empty"
	MsgPageContactTitle   = "page.contact.title"

	MsgTimeJustNow    = "time.just_now"
	MsgTimeMinutesAgo = "time.minutes_ago"
	MsgTimeHoursAgo   = "time.hours_ago"
	MsgTimeDaysAgo    = "time.days_ago"
	MsgTimeWeeksAgo   = "time.weeks_ago"
	MsgTimeMonthsAgo  = "time.months_ago"
	MsgTimeYearsAgo   = "time.years_ago"
)

// ActivityLabelKey is the catalog key for an activity type's display label.
func ActivityLabelKey(activityType string) string { return "activity.type." + activityType }

var english = map[string]string{
	MsgAuthRequired:        "Authentication required",
	MsgForbidden:           "You do not have permission to perform this action",
	MsgCSRFInvalid:         "CSRF token missing or invalid",
	MsgUserNotFound:        "User not found",
	MsgInvalidJSON:         "Request body must be valid JSON",
	MsgRateLimited:         "Too many requests, please retry later",
	MsgInternal:            "Internal server error",
	MsgActivityListFailed:  "Failed to fetch activities",
	MsgActivityCreateFail:  "Failed to create activity",
	MsgActivityFieldsReq:   "type, description and targetName are required",
	MsgActivityTypeInvalid: "type is not a supported activity type",
	MsgActivityDescTooLong: "description must be 500 characters or fewer",
	MsgActivityTargetLong:  "targetName must be 255 characters or fewer",

	MsgContactInvalid:      "The form contains errors",
	MsgContactAccepted:     "Thank you for contacting us. We have received your inquiry.",
	MsgContactFailed:       "Sending failed. Please try again later.",
	MsgContactNameReq:      "Please enter your name",
	MsgContactNameMax:      "Name must be 100 characters or fewer",
	MsgContactEmailReq:     "Please enter your email address",
	MsgContactEmailFormat:  "Please enter a valid email address",
	MsgContactEmailMax:     "Email address must be 254 characters or fewer",
	MsgContactSubjectReq:   "Please enter a subject",
	MsgContactSubjectMax:   "Subject must be 200 characters or fewer",
	MsgContactMessageReq:   "Please enter your message",
	MsgContactMessageMin:   "Message must be at least 10 characters",
	MsgContactMessageMax:   "Message must be 5000 characters or fewer",
	MsgContactNotFound:     "Contact not found",
	MsgContactStatusBad:    "status must be one of unread, read, replied",
	MsgContactTransitionNo: "Contact status cannot move from %s to %s",
	MsgContactChanged:      "Contact status was changed by someone else; reload and try again",

	MsgSignInFailed: "Sign-in failed. Please try again.",

	MsgPageHomeTitle:      "Code Review Portal",
	MsgPageSignInTitle:    "Sign in",
	MsgPageSignInGoogle:   "Sign in with Google",
	MsgPageDashboardTitle: "Recent activity",
	MsgPageDashboardEmpty: "No activity yet",
	MsgPageContactTitle:   "Contact us",

	MsgTimeJustNow:    "just now",
	MsgTimeMinutesAgo: "%d minutes ago",
	MsgTimeHoursAgo:   "%d hours ago",
	MsgTimeDaysAgo:    "%d days ago",
	MsgTimeWeeksAgo:   "%d weeks ago",
	MsgTimeMonthsAgo:  "%d months ago",
	MsgTimeYearsAgo:   "%d years ago",

	ActivityLabelKey("review_completed"): "Code review completed",
	ActivityLabelKey("project_created"):  "New project created",
	ActivityLabelKey("comment_added"):    "Review comment added",
	ActivityLabelKey("settings_updated"): "Settings updated",
	ActivityLabelKey("review_started"):   "Code review started",
}

var japanese = map[string]string{
	MsgAuthRequired:        "認証が必要です",
	MsgForbidden:           "この操作を行う権限がありません",
	MsgCSRFInvalid:         "CSRFトークンが無効です",
	MsgUserNotFound:        "ユーザーが見つかりません",
	MsgInvalidJSON:         "リクエストの形式が正しくありません",
	MsgRateLimited:         "リクエストが多すぎます。時間をおいて再度お試しください",
	MsgInternal:            "サーバーエラーが発生しました",
	MsgActivityListFailed:  "アクティビティの取得に失敗しました",
	MsgActivityCreateFail:  "アクティビティの作成に失敗しました",
	MsgActivityFieldsReq:   "type, description, targetName は必須です",
	MsgActivityTypeInvalid: "アクティビティ種別が不正です",
	MsgActivityDescTooLong: "説明文は500文字以内で入力してください",
	MsgActivityTargetLong:  "対象名は255文字以内で入力してください",

	MsgContactInvalid:      "入力内容に誤りがあります",
	MsgContactAccepted:     "お問い合わせを受け付けました。ご連絡ありがとうございます。",
	MsgContactFailed:       "送信に失敗しました。時間をおいて再度お試しください。",
	MsgContactNameReq:      "お名前を入力してください",
	MsgContactNameMax:      "お名前は100文字以内で入力してください",
	MsgContactEmailReq:     "メールアドレスを入力してください",
	MsgContactEmailFormat:  "有効なメールアドレスを入力してください",
	MsgContactEmailMax:     "メールアドレスは254文字以内で入力してください",
	MsgContactSubjectReq:   "件名を入力してください",
	MsgContactSubjectMax:   "件名は200文字以内で入力してください",
	MsgContactMessageReq:   "お問い合わせ内容を入力してください",
	MsgContactMessageMin:   "お問い合わせ内容は10文字以上で入力してください",
	MsgContactMessageMax:   "お問い合わせ内容は5000文字以内で入力してください",
	MsgContactNotFound:     "お問い合わせが見つかりません",
	MsgContactStatusBad:    "ステータスは unread, read, replied のいずれかです",
	MsgContactTransitionNo: "ステータスを %s から %s に変更できません",
	MsgContactChanged:      "ステータスが他の操作で変更されました。再読み込みしてからお試しください",

	MsgSignInFailed: "サインインに失敗しました。もう一度お試しください。",

	MsgPageHomeTitle:      "コードレビューポータル",
	MsgPageSignInTitle:    "サインイン",
	MsgPageSignInGoogle:   "Googleでサインイン",
	MsgPageDashboardTitle: "最近のアクティビティ",
	MsgPageDashboardEmpty: "アクティビティはまだありません",
	MsgPageContactTitle:   "お問い合わせ",

	MsgTimeJustNow:    "たった今",
	MsgTimeMinutesAgo: "%d分前",
	MsgTimeHoursAgo:   "%d時間前",
	MsgTimeDaysAgo:    "%d日前",
	MsgTimeWeeksAgo:   "%d週間前",
	MsgTimeMonthsAgo:  "%dヶ月前",
	MsgTimeYearsAgo:   "%d年前",

	ActivityLabelKey("review_completed"): "コードレビュー完了",
	ActivityLabelKey("project_created"):  "新規プロジェクト作成",
	ActivityLabelKey("comment_added"):    "レビューコメント追加",
	ActivityLabelKey("settings_updated"): "設定を更新",
	ActivityLabelKey("review_started"):   "コードレビュー開始",
}
