package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"inventory-catalog/utils"
)

// GitHubConfig selects the repository file to write.
type GitHubConfig struct {
	Token string
	// Repo is "owner/name".
	Repo   string
	Branch string

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL    string
	MaxRetries int
}

// GitHubPublisher commits a file through the repository contents API.
type GitHubPublisher struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewGitHubPublisher creates a publisher authenticated with cfg.Token.
func NewGitHubPublisher(cfg GitHubConfig, logger *utils.Logger) (*GitHubPublisher, error) {
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github: repository must be owner/name, got %q", cfg.Repo)
	}

	client := github.NewClient(&http.Client{Timeout: 30 * time.Second}).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: base url: %w", err)
		}
		client.BaseURL = u
	}

	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &GitHubPublisher{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: cfg.Branch,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
			Retryable:   retryableGitHub,
		},
	}, nil
}

func (p *GitHubPublisher) Name() string { return "github" }

// Publish updates in.Path when it exists on the branch and creates it
// otherwise.
func (p *GitHubPublisher) Publish(ctx context.Context, in Input) (*Output, error) {
	var out *Output
	err := p.retry.Do(ctx, "github publish", func() error {
		var err error
		out, err = p.put(ctx, in)
		return err
	})
	if err != nil {
		return nil, &Error{Target: p.Name(), Err: err}
	}
	return out, nil
}

func (p *GitHubPublisher) put(ctx context.Context, in Input) (*Output, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(in.Message),
		Content: in.Content,
	}
	if p.branch != "" {
		opts.Branch = github.String(p.branch)
	}

	sha, err := p.currentSHA(ctx, in.Path)
	if err != nil {
		return nil, err
	}

	var res *github.RepositoryContentResponse
	if sha == "" {
		res, _, err = p.client.Repositories.CreateFile(ctx, p.owner, p.repo, in.Path, opts)
		if err != nil {
			return nil, fmt.Errorf("github: create %s: %w", in.Path, err)
		}
		p.logger.Info("[github] Created %s in %s/%s", in.Path, p.owner, p.repo)
	} else {
		opts.SHA = github.String(sha)
		res, _, err = p.client.Repositories.UpdateFile(ctx, p.owner, p.repo, in.Path, opts)
		if err != nil {
			return nil, fmt.Errorf("github: update %s: %w", in.Path, err)
		}
		p.logger.Info("[github] Updated %s in %s/%s", in.Path, p.owner, p.repo)
	}

	out := &Output{Created: sha == ""}
	if res != nil {
		out.Location = res.Content.GetHTMLURL()
		out.Version = res.Commit.GetSHA()
	}
	return out, nil
}

// currentSHA returns the blob SHA of path, or "" when it does not exist.
func (p *GitHubPublisher) currentSHA(ctx context.Context, path string) (string, error) {
	var opts *github.RepositoryContentGetOptions
	if p.branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: p.branch}
	}
	file, _, resp, err := p.client.Repositories.GetContents(ctx, p.owner, p.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("github: get %s: %w", path, err)
	}
	if file == nil {
		return "", fmt.Errorf("github: %s is a directory", path)
	}
	return file.GetSHA(), nil
}

// retryableGitHub retries rate limits, conflicts from concurrent commits and
// server errors; authentication and validation failures are final.
func retryableGitHub(err error) bool {
	var rate *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &rate) || errors.As(err, &abuse) {
		return true
	}
	var resp *github.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		code := resp.Response.StatusCode
		return code == http.StatusConflict || code >= 500
	}
	return true
}
