package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hackerman70000/cbwg/internal/adapters/driven/llm/gemini"
	"github.com/hackerman70000/cbwg/internal/adapters/driven/ruleengine/hashcat"
	"github.com/hackerman70000/cbwg/internal/config"
	"github.com/hackerman70000/cbwg/internal/core/ports/driven"
	"github.com/hackerman70000/cbwg/internal/parsers/text"
	"github.com/hackerman70000/cbwg/internal/pipeline"
	"github.com/hackerman70000/cbwg/internal/sources/file"
	"github.com/hackerman70000/cbwg/internal/transformers/llm"
	"github.com/hackerman70000/cbwg/internal/transformers/rules"
)

var (
	generateAI           bool
	generateAPIKey       string
	generateAIConfig     string
	generatePaths        []string
	generateRulesDir     string
	generateSourceConfig string
	generateParserConfig string
	generateEngineConfig string
	generateOutput       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a wordlist from input files",
	Long: `Runs the generation pipeline: input files are read, candidate
tokens are extracted, and each token is expanded into variants using
either the local rule engine or an AI backend (--ai).`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateAI, "ai", false, "expand words with the AI backend instead of the rule engine")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "API key for the AI backend")
	generateCmd.Flags().StringVar(&generateAIConfig, "ai-config", "", "path to the AI backend YAML config")
	generateCmd.Flags().StringArrayVarP(&generatePaths, "path", "p", nil, "input file path (repeatable)")
	generateCmd.Flags().StringVarP(&generateRulesDir, "rules", "r", "", "directory with *.rule files")
	generateCmd.Flags().StringVar(&generateSourceConfig, "source-config", "", "path to the source YAML config")
	generateCmd.Flags().StringVar(&generateParserConfig, "parser-config", "", "path to the parser YAML config")
	generateCmd.Flags().StringVar(&generateEngineConfig, "engine-config", "", "path to the rule engine YAML config")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "stdout", "output sink: stdout or a file name (writes <name>.txt)")
	_ = generateCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := buildSource()
	if err != nil {
		return err
	}

	parser, err := buildParser()
	if err != nil {
		return err
	}

	var transformer driven.Transformer
	if generateAI {
		transformer, err = buildLLMTransformer()
	} else {
		transformer, err = buildRuleTransformer()
	}
	if err != nil {
		return err
	}

	sink, closeSink, err := openSink(cmd)
	if err != nil {
		return err
	}
	defer closeSink()

	return pipeline.New(source, parser, transformer, sink).Run(ctx)
}

func buildSource() (driven.DataSource, error) {
	var cfg file.Config
	if generateSourceConfig != "" {
		raw, err := config.LoadFile(generateSourceConfig, config.TagSource)
		if err != nil {
			return nil, err
		}
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return file.New(generatePaths, cfg)
}

func buildParser() (driven.Parser, error) {
	var cfg text.Config
	if generateParserConfig != "" {
		raw, err := config.LoadFile(generateParserConfig, config.TagParser)
		if err != nil {
			return nil, err
		}
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return text.New(cfg)
}

func buildRuleTransformer() (driven.Transformer, error) {
	var cfg rules.Config
	if generateEngineConfig != "" {
		raw, err := config.LoadFile(generateEngineConfig, config.TagEngine)
		if err != nil {
			return nil, err
		}
		if err := config.Decode(raw, &cfg); err != nil {
			return nil, err
		}
	}
	if generateRulesDir != "" {
		cfg.RulesPath = generateRulesDir
	}
	return rules.New(hashcat.New(), cfg)
}

func buildLLMTransformer() (driven.Transformer, error) {
	var clientCfg gemini.Config
	var transformerCfg llm.Config

	if generateAIConfig != "" {
		raw, err := config.LoadFile(generateAIConfig, config.TagAI)
		if err != nil {
			return nil, err
		}
		// One validated document configures both the client and the
		// transformer; each struct picks out its own keys.
		if err := config.Decode(raw, &clientCfg); err != nil {
			return nil, err
		}
		if err := config.Decode(raw, &transformerCfg); err != nil {
			return nil, err
		}
	}

	if generateAPIKey != "" {
		clientCfg.APIKey = generateAPIKey
	}
	if settings != nil {
		if clientCfg.Model == "" {
			clientCfg.Model = settings.GetString("ai.model")
		}
		if transformerCfg.BatchSize == 0 {
			transformerCfg.BatchSize = settings.GetInt("ai.batch_size")
		}
	}

	client, err := gemini.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return llm.New(client, transformerCfg)
}

// openSink resolves the output flag into a writer: stdout, or a
// line-delimited <name>.txt file.
func openSink(cmd *cobra.Command) (io.Writer, func(), error) {
	name := generateOutput
	if name == "" || name == "stdout" {
		if settings != nil && settings.GetString("output.default") != "" {
			name = settings.GetString("output.default")
		}
	}
	if name == "" || name == "stdout" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(name + ".txt")
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
