/*
Package remote materializes a remote Git repository into a temporary local
checkout so the regular tree walker can count it. Clones are shallow and
single-branch; the checkout lives in a loctor-* temp directory removed by
Close (or by the application's temp cleanup if the process dies first).
*/
package remote

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/sonemaro/loctor/pkg/logger"
)

// Options describe the repository to fetch.
type Options struct {
	// URL of the repository, e.g. https://github.com/owner/repo
	URL string

	// Ref is an optional branch or tag name. Empty means the default branch.
	Ref string

	// Token is an optional access token for private repositories.
	Token string
}

// Repository is a local checkout of a remote repository.
type Repository struct {
	// Path is the root of the checkout, suitable for scanner.Scan.
	Path string

	log logger.Logger
}

// Clone fetches the repository described by opts into a temp directory.
func Clone(ctx context.Context, opts Options, log logger.Logger) (*Repository, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}

	dir, err := os.MkdirTemp("", "loctor-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	log.WithFields(logger.Fields{
		"url": opts.URL,
		"ref": opts.Ref,
		"dir": dir,
	}).Info("Cloning remote repository")

	cloneOpts := &git.CloneOptions{
		URL:          opts.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
	}
	if opts.Token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: opts.Token,
		}
	}

	_, err = git.PlainCloneContext(ctx, dir, false, cloneOpts)
	if err != nil && opts.Ref != "" {
		// The ref may be a tag rather than a branch; retry once.
		log.WithFields(logger.Fields{
			"ref":   opts.Ref,
			"error": err,
		}).Debug("Branch clone failed, retrying as tag")

		_ = os.RemoveAll(dir)
		if dir, err = os.MkdirTemp("", "loctor-*"); err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(opts.Ref)
		_, err = git.PlainCloneContext(ctx, dir, false, cloneOpts)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to clone %s: %w", opts.URL, err)
	}

	log.WithFields(logger.Fields{
		"url": opts.URL,
		"dir": dir,
	}).Info("Clone completed")

	return &Repository{Path: dir, log: log}, nil
}

// Close removes the local checkout.
func (r *Repository) Close() error {
	if r.Path == "" {
		return nil
	}

	r.log.WithFields(logger.Fields{
		"dir": r.Path,
	}).Debug("Removing checkout")

	err := os.RemoveAll(r.Path)
	r.Path = ""
	return err
}
