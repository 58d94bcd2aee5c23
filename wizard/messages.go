package wizard

import (
	"errors"

	"styleaiapi/models"
	"styleaiapi/services"
)

type message struct {
	en, zh string
}

var (
	msgUnavailable = message{"The styling service is not configured. Please try again later.", "造型服务暂未配置，请稍后再试。"}
	msgRecommend   = message{"Could not create a recommendation, please try again later.", "无法生成推荐，请稍后重试。"}
	msgRender      = message{"Image generation failed.", "图片生成失败。"}
	msgEdit        = message{"Image edit failed.", "图片编辑失败。"}
	msgBusy        = message{"The service is busy, please try again later.", "服务繁忙，请稍后再试。"}
	msgEmptyEdit   = message{"Please describe the change you want.", "请输入修改描述。"}
)

func (m message) in(lang models.Language) string {
	if lang == models.ZH {
		return m.zh
	}
	return m.en
}

// UserMessage turns an error of the wizard or the gateway into text fit for the screen.
func UserMessage(err error, lang models.Language) string {
	var editErr *EditError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &editErr):
		return msgEdit.in(lang)
	case errors.Is(err, services.ErrProviderUnavailable):
		return msgUnavailable.in(lang)
	case errors.Is(err, services.ErrEmptyResponse), errors.Is(err, services.ErrMalformedResponse):
		return msgRecommend.in(lang)
	case errors.Is(err, services.ErrNoImageReturned):
		return msgRender.in(lang)
	case errors.Is(err, ErrEmptyInstruction):
		return msgEmptyEdit.in(lang)
	default:
		return msgBusy.in(lang)
	}
}

// generationMessage is the wizard error text for a failed generate step, worded by the
// phase that failed when the error itself carries no better hint.
func generationMessage(phase string, err error, lang models.Language) string {
	var providerErr *services.ProviderError
	if !errors.As(err, &providerErr) {
		return UserMessage(err, lang)
	}
	if phase == phaseRender {
		return msgRender.in(lang)
	}
	return msgRecommend.in(lang)
}
