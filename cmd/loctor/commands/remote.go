package commands

import (
	"github.com/spf13/cobra"

	"github.com/sonemaro/loctor/cmd/loctor/app"
	"github.com/sonemaro/loctor/pkg/output"
	"github.com/sonemaro/loctor/pkg/remote"
)

type remoteOptions struct {
	*countOptions
	link  string
	ref   string
	token string
}

func newRemoteCommand(co *countOptions) *cobra.Command {
	ro := &remoteOptions{
		countOptions: co,
	}

	cmd := &cobra.Command{
		Use:   "remote [flags]",
		Short: "Count lines in a remote git repository",
		Long: `Count lines of code in a remote git repository without keeping a
local copy. The repository is checked out shallowly into a temporary
directory, counted, and removed afterwards.

All counting flags of the root command apply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemote(ro)
		},
	}

	cmd.Flags().StringVar(&ro.link, "link", "",
		"repository URL, e.g. https://github.com/owner/repo")
	cmd.Flags().StringVar(&ro.ref, "git-ref", "",
		"branch or tag to check out (default: default branch)")
	cmd.Flags().StringVar(&ro.token, "github-token", "",
		"access token for private repositories")
	cmd.MarkFlagRequired("link")

	return cmd
}

func runRemote(ro *remoteOptions) error {
	cfg := ro.Config

	application := app.New(cfg)
	defer application.Shutdown()

	return application.RunRemote(remote.Options{
		URL:   ro.link,
		Ref:   ro.ref,
		Token: ro.token,
	}, &app.CountOptions{
		Format:           output.Format(cfg.Output),
		OutputPath:       cfg.OutputFile,
		Exclude:          cfg.Exclude,
		Extensions:       cfg.Extensions,
		RespectGitignore: !cfg.NoIgnore,
		IncludeHidden:    cfg.Hidden,
	})
}
