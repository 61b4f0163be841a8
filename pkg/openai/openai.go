package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai/pkg/errkind"
	goopenai "github.com/sashabaranov/go-openai"
)

type Config struct {
	Debug      bool
	Token      string
	BaseURL    string
	Model      string
	ImageModel string
	Timeout    time.Duration
	Proxy      string
}

type Client struct {
	client     *goopenai.Client
	model      string
	imageModel string
	debug      bool
}

// Image is the single result of an image generation. Exactly one of the
// fields is expected to be set.
type Image struct {
	URL     string
	B64JSON string
}

var imageSizes = map[string]string{
	"sm": goopenai.CreateImageSize256x256,
	"md": goopenai.CreateImageSize512x512,
	"lg": goopenai.CreateImageSize1024x1024,
}

var imageFormats = map[string]string{
	"url":      goopenai.CreateImageResponseFormatURL,
	"b64_json": goopenai.CreateImageResponseFormatB64JSON,
}

func New(cfg *Config) (*Client, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}
	if cfg.Proxy != "" {
		u, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("openai: invalid proxy URL: %w", err)
		}
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(u),
		}
	}
	c := goopenai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		c.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	c.HTTPClient = httpClient

	model := cfg.Model
	if model == "" {
		model = goopenai.GPT3Dot5TurboInstruct
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = goopenai.CreateImageModelDallE2
	}
	return &Client{
		client:     goopenai.NewClientWithConfig(c),
		model:      model,
		imageModel: imageModel,
		debug:      cfg.Debug,
	}, nil
}

// Models lists the model IDs available to the configured token.
// It doesn't consume tokens, so it is used as a reachability probe.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		log.Debugf("openai: couldn't list models: %v", err)
		return nil, fmt.Errorf("openai: couldn't list models: %w: %w", errkind.ErrUnavailable, err)
	}
	var ids []string
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("openai: empty model list: %w", errkind.ErrUnavailable)
	}
	return ids, nil
}

// Summarize asks for the themes of the given lyrics. Size "sm" limits the
// answer to five words, "lg" leaves it unconstrained.
func (c *Client) Summarize(ctx context.Context, lyrics, size string) (string, error) {
	var suffix string
	switch size {
	case "sm":
		suffix = " in five words or less"
	case "lg":
	default:
		return "", fmt.Errorf("openai: invalid summary size %q: %w", size, errkind.ErrInvalidInput)
	}
	prompt := fmt.Sprintf("Summarize the themes in this song lyric%s:\n\n%s", suffix, lyrics)
	return c.complete(ctx, prompt, 64)
}

// DescribeScene asks for a detailed visual scene inspired by the themes.
func (c *Client) DescribeScene(ctx context.Context, themes string) (string, error) {
	if themes == "" {
		return "", fmt.Errorf("openai: empty themes: %w", errkind.ErrInvalidInput)
	}
	prompt := fmt.Sprintf("Describe in detail, a visual scene based on the themes of %s", themes)
	return c.complete(ctx, prompt, 60)
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.debug {
		log.Debugf("openai: completion prompt %q", prompt)
	}
	resp, err := c.client.CreateCompletion(ctx, goopenai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
		TopP:        1,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("openai: couldn't create completion: %w: %w", errkind.ErrUpstream, err)
	}
	switch {
	case len(resp.Choices) == 0:
		return "", fmt.Errorf("openai: completion without choices: %w", errkind.ErrUpstream)
	case strings.TrimSpace(resp.Choices[0].Text) == "":
		return "", fmt.Errorf("openai: completion with empty text: %w", errkind.ErrUpstream)
	}
	text := resp.Choices[0].Text
	if c.debug {
		log.Debugf("openai: completion response %q", text)
	}
	return text, nil
}

// GenerateImage generates a single image. Size is one of sm, md or lg and
// format is url or b64_json.
func (c *Client) GenerateImage(ctx context.Context, prompt, size, format string) (*Image, error) {
	if prompt == "" {
		return nil, fmt.Errorf("openai: empty image prompt: %w", errkind.ErrInvalidInput)
	}
	resolution, ok := imageSizes[size]
	if !ok {
		return nil, fmt.Errorf("openai: invalid image size %q: %w", size, errkind.ErrInvalidInput)
	}
	responseFormat, ok := imageFormats[format]
	if !ok {
		return nil, fmt.Errorf("openai: invalid image format %q: %w", format, errkind.ErrInvalidInput)
	}
	resp, err := c.client.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           resolution,
		ResponseFormat: responseFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: couldn't create image: %w: %w", errkind.ErrUpstream, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: image response without data: %w", errkind.ErrUpstream)
	}
	data := resp.Data[0]
	if c.debug {
		log.Debugf("openai: image response (url %t, b64 %d bytes)", data.URL != "", len(data.B64JSON))
	}
	return &Image{
		URL:     data.URL,
		B64JSON: data.B64JSON,
	}, nil
}
