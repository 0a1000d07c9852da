package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codelearn_backend/internal/config"
	"codelearn_backend/pkg/monitoring"
)

// CodeExecutor 外部代码执行沙箱
// 返回捕获的标准输出；执行失败（编译错、运行错、超时、服务不可达）
// 统一以 error 返回，由判题侧折算成该用例的 actual 文本
type CodeExecutor interface {
	Execute(ctx context.Context, code, language, stdin string) (string, error)
}

// Judge0 语言编号
var executorLanguageIDs = map[string]int{
	"c":          50,
	"cpp":        54,
	"java":       62,
	"javascript": 63,
	"python":     71,
	"go":         60,
}

type ExecutorService struct {
	config config.ExecutorConfig
	client *http.Client
}

func NewExecutorService(cfg config.ExecutorConfig) *ExecutorService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &ExecutorService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type executorRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

type executorResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (s *ExecutorService) Execute(ctx context.Context, code, language, stdin string) (string, error) {
	langID, ok := executorLanguageIDs[strings.ToLower(language)]
	if !ok {
		// 不支持的语言不发起调用
		return "", fmt.Errorf("unsupported language: %s", language)
	}

	reqBody := executorRequest{
		SourceCode: code,
		LanguageID: langID,
		Stdin:      stdin,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.URL+"/submissions?wait=true", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("X-Auth-Token", s.config.APIKey)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	monitoring.ExecutorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			monitoring.ExecutorCalls.WithLabelValues("timeout").Inc()
			return "", fmt.Errorf("execution timed out after %ds", s.config.TimeoutSeconds)
		}
		monitoring.ExecutorCalls.WithLabelValues("unreachable").Inc()
		return "", fmt.Errorf("execution service unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.ExecutorCalls.WithLabelValues("error").Inc()
		return "", fmt.Errorf("execution service error (status %d): %s", resp.StatusCode, string(body))
	}

	var result executorResponse
	if err := json.Unmarshal(body, &result); err != nil {
		monitoring.ExecutorCalls.WithLabelValues("error").Inc()
		return "", fmt.Errorf("malformed execution service response: %v", err)
	}

	// 有错误流且无输出视为执行失败
	if result.Stdout == "" {
		if result.CompileOutput != "" {
			monitoring.ExecutorCalls.WithLabelValues("compile_error").Inc()
			return "", fmt.Errorf("compilation failed: %s", strings.TrimSpace(result.CompileOutput))
		}
		if result.Stderr != "" {
			monitoring.ExecutorCalls.WithLabelValues("runtime_error").Inc()
			return "", fmt.Errorf("%s", strings.TrimSpace(result.Stderr))
		}
	}

	monitoring.ExecutorCalls.WithLabelValues("ok").Inc()
	return result.Stdout, nil
}
