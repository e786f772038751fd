package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/domain"
	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API calls themselves; error-to-turn conversion and session
// bookkeeping happen in the dispatch layer.
type GeminiClient struct {
	cli *genai.Client
	cfg *config.AppConfig
}

func NewGeminiClient(ctx context.Context, apiKey string, cfg *config.AppConfig) (*GeminiClient, error) {
	httpClient, err := proxyHTTPClient(cfg.SystemConfig.Proxy)
	if err != nil {
		return nil, fmt.Errorf("configure proxy: %w", err)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{cli: cli, cfg: cfg}, nil
}

// Upload pushes a local file to the remote account and returns its handle.
func (g *GeminiClient) Upload(ctx context.Context, path, mimeType string) (*RemoteFile, error) {
	file, err := g.cli.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(path),
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	return &RemoteFile{
		Name:        file.Name,
		DisplayName: file.DisplayName,
		URI:         file.URI,
		MIMEType:    file.MIMEType,
	}, nil
}

// Generate sends an ordered sequence of text/file parts to the model
// configured for purpose. An empty result is reported as an error so
// callers treat it identically to a transport failure.
func (g *GeminiClient) Generate(ctx context.Context, purpose string, parts []Part) (string, error) {
	params := g.cfg.ModelParams(purpose)

	gparts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.File != nil {
			gparts = append(gparts, &genai.Part{
				FileData: &genai.FileData{FileURI: p.File.URI, MIMEType: p.File.MIMEType},
			})
			continue
		}
		gparts = append(gparts, &genai.Part{Text: p.Text})
	}

	resp, err := g.cli.Models.GenerateContent(ctx, params.ModelName,
		[]*genai.Content{{Parts: gparts}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(params.Temperature)),
			MaxOutputTokens: params.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

// CreateDocumentCache creates a server-side cached context around an
// uploaded document so follow-up queries do not re-send it.
func (g *GeminiClient) CreateDocumentCache(ctx context.Context, file *RemoteFile, systemInstruction string) (string, error) {
	params := g.cfg.ModelParams(config.PurposeDocument)
	cc, err := g.cli.Caches.Create(ctx, params.ModelName, &genai.CreateCachedContentConfig{
		DisplayName:       file.DisplayName,
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Contents: []*genai.Content{{Parts: []*genai.Part{{
			FileData: &genai.FileData{FileURI: file.URI, MIMEType: file.MIMEType},
		}}}},
		TTL: config.DocumentCacheTTL,
	})
	if err != nil {
		return "", fmt.Errorf("create document cache: %w", err)
	}
	return cc.Name, nil
}

// GenerateFromCache runs a prompt scoped to a cached document context.
func (g *GeminiClient) GenerateFromCache(ctx context.Context, cacheName, prompt string) (string, error) {
	params := g.cfg.ModelParams(config.PurposeDocument)
	resp, err := g.cli.Models.GenerateContent(ctx, params.ModelName,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			MaxOutputTokens: params.MaxOutputTokens,
			CachedContent:   cacheName,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate from cache: %w", err)
	}
	return responseText(resp)
}

func (g *GeminiClient) ListFiles(ctx context.Context) ([]RemoteFile, error) {
	var out []RemoteFile
	for file, err := range g.cli.Files.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
		out = append(out, RemoteFile{
			Name:        file.Name,
			DisplayName: file.DisplayName,
			URI:         file.URI,
			MIMEType:    file.MIMEType,
		})
	}
	return out, nil
}

func (g *GeminiClient) DeleteFile(ctx context.Context, name string) error {
	if _, err := g.cli.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// ClearCaches deletes every cached content object on the account and
// returns how many were removed. An empty account is a successful no-op.
func (g *GeminiClient) ClearCaches(ctx context.Context) (int, error) {
	deleted := 0
	for cc, err := range g.cli.Caches.All(ctx) {
		if err != nil {
			return deleted, fmt.Errorf("list caches: %w", err)
		}
		if _, err := g.cli.Caches.Delete(ctx, cc.Name, nil); err != nil {
			return deleted, fmt.Errorf("delete cache %s: %w", cc.Name, err)
		}
		deleted++
	}
	return deleted, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrEmptyResponse
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}
