package services

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hongik423/chief-eval-system-sub000/app/config"
)

const reportSystemPrompt = `당신은 컨설팅 회사의 수석컨설턴트 인증평가 보고서를 작성하는 심사 간사입니다.
전달받은 평가 결과 JSON(평가위원별 섹션 점수, 코멘트, 가점, 최종 평균, 합격 여부)을 바탕으로
후보자에 대한 종합 평가 보고서를 한국어로 작성하세요. 강점과 보완점을 구분하고,
평가위원 코멘트를 근거로 인용하되 위원 실명은 언급하지 마세요.`

// GenerateCandidateReport asks the AI collaborator to write a narrative
// report from a serialized candidate result. Best-effort: any failure is
// returned to the caller and never touches scoring state.
func GenerateCandidateReport(ctx context.Context, cfg config.OpenAIConfig, result interface{}) (string, error) {
	if cfg.APIKey == "" {
		return "", fmt.Errorf("report generation is not configured")
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	client := openai.NewClient(cfg.APIKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reportSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("report service returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}
