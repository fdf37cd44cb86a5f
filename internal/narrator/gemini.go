package narrator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash-preview-tts"
	DefaultVoice   = "Kore"

	instruction = "Hãy đọc to văn bản sau bằng giọng nữ miền Bắc Việt Nam, phát âm rõ ràng từng từ, tốc độ chậm rãi, thân thiện như cô giáo đang nói với trẻ mầm non. Lưu ý đọc đúng số giờ và phút, ví dụ \"3 giờ 15 phút\": "
)

// ErrNoAudio is returned when the reply carries no inline audio.
var ErrNoAudio = errors.New("no audio in synthesis response")

// Synthesizer turns text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Clip, error)
}

type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Voice   string
	Timeout time.Duration
}

// GeminiSynthesizer calls the Gemini generateContent endpoint with audio output.
type GeminiSynthesizer struct {
	baseURL    string
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client
}

func NewGeminiSynthesizer(cfg GeminiConfig) *GeminiSynthesizer {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	voice := strings.TrimSpace(cfg.Voice)
	if voice == "" {
		voice = DefaultVoice
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiSynthesizer{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		voice:      voice,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: instruction + "\"" + text + "\""}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
	}
	req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = g.voice

	body, err := json.Marshal(req)
	if err != nil {
		return Clip{}, err
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Clip{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return Clip{}, fmt.Errorf("gemini tts: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Clip{}, fmt.Errorf("gemini tts: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Clip{}, fmt.Errorf("gemini tts: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Clip{}, fmt.Errorf("gemini tts: decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return Clip{}, ErrNoAudio
	}
	data := out.Candidates[0].Content.Parts[0].InlineData
	if data == nil || data.Data == "" {
		return Clip{}, ErrNoAudio
	}
	pcm, err := base64.StdEncoding.DecodeString(data.Data)
	if err != nil {
		return Clip{}, fmt.Errorf("gemini tts: decode audio: %w", err)
	}
	return Clip{Text: text, PCM: pcm, SampleRate: DefaultSampleRate, Channels: DefaultChannels}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
