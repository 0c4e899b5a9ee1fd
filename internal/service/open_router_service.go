package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// maxPromptDocument bounds how much of a document is sent for extraction.
const maxPromptDocument = 12000

type JobFields struct {
	Title    string
	Role     string
	Company  string
	Location string
	Skills   []string
}

type ResumeFields struct {
	Name            string
	Email           string
	Phone           string
	Skills          []string
	ExperienceYears float64
}

type OpenRouterServiceInterface interface {
	ExtractJob(ctx context.Context, text string) (*JobFields, error)
	ExtractResume(ctx context.Context, text string) (*ResumeFields, error)
}

type OpenRouterService struct {
	APIKey string
	Model  string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(60*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json")
	return &OpenRouterService{APIKey: cfg.APIKey, Model: cfg.Model, client: client}
}

func (s *OpenRouterService) ExtractJob(ctx context.Context, text string) (*JobFields, error) {
	prompt := fmt.Sprintf(`Extract the following fields from this job description.
Return your answer STRICTLY in JSON format with this schema:
{
  "title": "<job title>",
  "role": "<normalized role name>",
  "company": "<company name or empty>",
  "location": "<location or empty>",
  "skills": ["<required skill>", ...]
}

Job description:
%s
`, truncate(text, maxPromptDocument))

	content, err := s.complete(ctx, "You extract structured data from job descriptions.", prompt)
	if err != nil {
		return nil, fmt.Errorf("extract job fields: %w", err)
	}
	return &JobFields{
		Title:    gjson.Get(content, "title").String(),
		Role:     gjson.Get(content, "role").String(),
		Company:  gjson.Get(content, "company").String(),
		Location: gjson.Get(content, "location").String(),
		Skills:   stringArray(gjson.Get(content, "skills")),
	}, nil
}

func (s *OpenRouterService) ExtractResume(ctx context.Context, text string) (*ResumeFields, error) {
	prompt := fmt.Sprintf(`Extract the candidate details from this resume.
Return your answer STRICTLY in JSON format with this schema:
{
  "name": "<full name>",
  "email": "<email address>",
  "phone": "<phone number or empty>",
  "skills": ["<skill>", ...],
  "experience_years": <total years of professional experience as a number>
}

Resume:
%s
`, truncate(text, maxPromptDocument))

	content, err := s.complete(ctx, "You extract structured data from resumes.", prompt)
	if err != nil {
		return nil, fmt.Errorf("extract resume fields: %w", err)
	}
	return &ResumeFields{
		Name:            gjson.Get(content, "name").String(),
		Email:           strings.ToLower(gjson.Get(content, "email").String()),
		Phone:           gjson.Get(content, "phone").String(),
		Skills:          stringArray(gjson.Get(content, "skills")),
		ExperienceYears: gjson.Get(content, "experience_years").Float(),
	}, nil
}

func (s *OpenRouterService) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.APIKey).
		SetBody(map[string]any{
			"model":       s.Model,
			"temperature": 0.1,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": prompt},
			},
		}).
		Post("")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("llm returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	text = stripCodeFence(text)
	if !gjson.Valid(text) {
		slog.Warn("llm returned non-JSON content", slog.String("content", truncate(text, 200)))
		return "", fmt.Errorf("llm returned non-JSON content")
	}
	return text, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringArray(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
