// Package render maps pipeline outcomes to the fixed user-visible LINE
// messages.
package render

import (
	"errors"

	"tripdesk/internal/domain"
	"tripdesk/internal/extract"
)

// Fixed zh_tw notices. Every terminal pipeline failure maps to exactly one
// of these; the pipeline never retries, so each asks the user to resubmit.
const (
	MsgDecodeFailed      = "圖片辨識失敗，請重新傳送一次。"
	MsgNoVariantMatched  = "無法判斷這張單據的類型。"
	MsgMissingIdentifier = "單據缺少編號欄位，請重新傳送。"
	MsgTranslationFailed = "翻譯結果解析失敗，請再試一次。"
	MsgDuplicate         = "這筆單據已經存在資料庫中。"
	MsgCleared           = "對話歷史紀錄已經清空！"
	MsgProcessingFailed  = "處理過程發生錯誤，請稍後再試。"
)

// MessageFor returns the fixed notice for a pipeline error.
func MessageFor(err error) string {
	var decodeErr *extract.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return MsgDecodeFailed
	case errors.Is(err, domain.ErrNoVariantMatched):
		return MsgNoVariantMatched
	case errors.Is(err, domain.ErrMissingIdentifier):
		return MsgMissingIdentifier
	case errors.Is(err, domain.ErrTranslationFailed):
		return MsgTranslationFailed
	}
	return MsgProcessingFailed
}
