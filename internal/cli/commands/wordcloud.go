package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/internal/cli/renderers"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/output"
)

// WordCloudOptions holds command-line options for the wordcloud command.
type WordCloudOptions struct {
	Config   string
	User     string
	Image    string
	Renderer string
	Print    bool
}

// NewWordCloudCommand creates the wordcloud command.
func NewWordCloudCommand() *cobra.Command {
	opts := &WordCloudOptions{}

	cmd := &cobra.Command{
		Use:   "wordcloud <export>",
		Short: "Render a word cloud of a chat export",
		Long: `Build the word-cloud corpus (lowercased words without stop words, media
placeholders or system notifications) and pipe it to the external renderer
chatlens-render-<renderer>. Without a renderer, or with --print, the corpus
is written to stdout instead.

Example:
  chatlens wordcloud --image cloud.png chat.txt
  chatlens wordcloud --user Alice --print chat.txt > alice.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWordCloud(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Analysis config file (YAML)")
	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "Restrict the corpus to one participant (default Overall)")
	cmd.Flags().StringVar(&opts.Image, "image", "wordcloud.png", "Image file the renderer writes")
	cmd.Flags().StringVar(&opts.Renderer, "renderer", "wordcloud", "Renderer name (runs chatlens-render-<name>)")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print the corpus instead of rendering it")

	return cmd
}

func runWordCloud(cmd *cobra.Command, exportPath string, opts *WordCloudOptions) error {
	ctx := commandContext(cmd)

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, result, err := loadExport(cfg, exportPath)
	if err != nil {
		return rejectInput(cmd, err)
	}

	filter := analyzer.Filter(opts.User)
	if !filter.IsOverall() && !analyzer.HasSender(result.Records, opts.User) {
		return &output.UnknownParticipantError{Name: opts.User}
	}

	corpus := analyzer.New(cfg.AnalyzerOptions(logger)...).WordCloudCorpus(result.Records, filter)
	if corpus == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: no words left to render after removing stop words")
		ExitCode = 1
		return nil
	}

	if opts.Print {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), corpus)
		return err
	}

	path, err := renderers.Find(opts.Renderer)
	if errors.Is(err, renderers.ErrRendererNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), renderers.FormatNotFoundError(opts.Renderer))
		fmt.Fprintln(cmd.ErrOrStderr(), "\nPrinting the corpus instead.")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), corpus)
		return err
	}
	if err != nil {
		return err
	}

	code, err := renderers.Run(ctx, path, []string{"-o", opts.Image}, strings.NewReader(corpus), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("renderer %s exited with status %d", opts.Renderer, code)
	}

	logger.Info("word cloud rendered", zap.String("image", opts.Image), zap.String("renderer", path))
	return nil
}
