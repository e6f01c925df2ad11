package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/gather/cmd/gather/opts"
	"github.com/walteh/gather/pkg/config"
	"github.com/walteh/gather/pkg/gather"
	"github.com/walteh/gather/pkg/log"
	"github.com/walteh/gather/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCmd creates a new build command
func NewBuildCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		root   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Gather the configured sources into the output directory",
		Long: `Build runs the gather plugin in a one-stage pipeline.
It will:
1. Load and validate the config
2. Read every configured file and walk every configured directory
3. Write the gathered tree under --root, keeping each source's mode

Relative source paths are resolved against the config file's directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "build").Logger().WithContext(ctx)

			configPath, err := filepath.Abs(rootOpts.ConfigFile)
			if err != nil {
				return errors.Errorf("resolving config path: %w", err)
			}

			cfg, err := config.Load(ctx, configPath)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			base := filepath.Dir(configPath)
			for i, f := range cfg.Files {
				if !filepath.IsAbs(f) {
					cfg.Files[i] = filepath.Join(base, f)
				}
			}
			if root == "" {
				root = base
			}

			console := log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			ctx = log.NewContext(ctx, console)

			console.Header("gathering files")
			console.StartBuild(ctx, log.BuildOperation{
				Config:  configPath,
				Output:  cfg.Output,
				Sources: cfg.Files,
			})

			plugin, err := gather.New(*cfg, osfs.New("/"), console)
			if err != nil {
				return errors.Errorf("creating plugin: %w", err)
			}

			files := pipeline.NewFiles()
			meta := pipeline.Metadata{
				"config":  configPath,
				"version": rootOpts.Version,
			}
			if err := pipeline.New(meta).Use(plugin).Build(ctx, files); err != nil {
				console.EndBuild(ctx)
				console.Errorf("gather failed: %v", err)
				return errors.Errorf("building: %w", err)
			}

			count := console.EndBuild(ctx)
			console.LogNewline()

			if dryRun {
				return printDryRun(ctx, cmd.OutOrStdout(), files, count)
			}

			if count == 0 {
				console.Warning("no files gathered")
			}

			if err := pipeline.Write(ctx, osfs.New(root), files); err != nil {
				console.Errorf("writing under %s failed: %v", root, err)
				return errors.Errorf("writing output: %w", err)
			}

			console.Successf("gathered %d files into %s", count, filepath.Join(root, cfg.Output))
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "directory the output tree is written under (default: config file directory)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the gathered tree without writing it")

	return cmd
}

// printDryRun prints the gathered tree instead of writing it
func printDryRun(ctx context.Context, w io.Writer, files *pipeline.Files, count int) error {
	table, err := renderTable(files)
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	fmt.Fprint(w, table)
	log.FromContext(ctx).Infof("dry run: %d files not written", count)
	return nil
}

// renderTable renders the gathered tree as a pterm table
func renderTable(files *pipeline.Files) (string, error) {
	data := pterm.TableData{{"Key", "Mode", "Bytes"}}
	for _, key := range files.Keys() {
		rec, _ := files.Get(key)
		data = append(data, []string{key, rec.Mode, fmt.Sprintf("%d", len(rec.Contents))})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
