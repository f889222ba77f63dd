package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tsailly/lettre-gen/internal/ai"
	"github.com/tsailly/lettre-gen/internal/ai/gemini"
	"github.com/tsailly/lettre-gen/internal/compose"
	"github.com/tsailly/lettre-gen/internal/extract"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/latex"
	"github.com/tsailly/lettre-gen/internal/logger"
	"github.com/tsailly/lettre-gen/internal/pipeline"
	"github.com/tsailly/lettre-gen/internal/secrets"
	"github.com/tsailly/lettre-gen/internal/templates"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate cover letters for every job ad in the input directory",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("text", "t", "", "inline job ad text instead of reading the input directory")
	runCmd.Flags().StringP("file", "f", "", "a single job ad file instead of reading the input directory")
	runCmd.Flags().StringP("instructions", "i", "", "extra free-text directives for the letter composer")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before generating letters")
	runCmd.Flags().Bool("keep-tex", false, "keep the .tex source next to the generated PDF")
	runCmd.Flags().Bool("skip-compile", false, "write the assembled .tex without running pdflatex")
	runCmd.Flags().String("template", "", "force a template identifier, bypassing the selector")

	viper.BindPFlag("template", runCmd.Flags().Lookup("template"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting lettre-gen", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := config.Profile.Validate(); err != nil {
		logger.Fatal("invalid candidate profile", zap.Error(err))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY (possibly via .env) or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	if cmd.Flag("skip-compile").Value.String() == "false" && !latex.Available() {
		logger.Fatal("pdflatex not found in PATH",
			zap.String("hint", "install a LaTeX distribution or pass --skip-compile to write .tex files only"),
		)
	}

	generator, err := gemini.New(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
	))
	if err != nil {
		logger.Fatal("creating gemini client", zap.Error(err))
	}

	store, err := templates.LoadDir(config.Paths.Templates)
	if err != nil {
		logger.Fatal("loading letter templates", zap.Error(err))
	}

	logger.Info("templates loaded", zap.Strings("identifiers", store.IDs()))

	ads, err := collectAds(cmd, config, logger)
	if err != nil {
		logger.Fatal("collecting job ads", zap.Error(err))
	}

	if len(ads) == 0 {
		logger.Info("exiting", zap.String("reason", "no job ads found"))
		return
	}

	names := make([]string, 0, len(ads))
	for _, ad := range ads {
		names = append(names, ad.Name)
	}
	logger.Info("job ads to process", zap.Int("count", len(ads)), zap.Strings("ads", names))

	if cmd.Flag("auto-approve").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Generate %d cover letter(s)?", len(ads)),
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	pipe, err := buildPipeline(cmd, config, generator, store, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	generated, failed := 0, 0
	for _, ad := range ads {
		logger.Info("processing job ad", zap.String("ad", ad.Name))

		result := pipe.Process(ctx, ad)
		if result.Failed() {
			failed++
			continue
		}
		generated++
	}

	logger.Info("run finished",
		zap.Int("generated", generated),
		zap.Int("failed", failed),
	)
}

func collectAds(cmd *cobra.Command, config *Config, logger *zap.Logger) ([]*jobad.Ad, error) {
	text := cmd.Flag("text").Value.String()
	file := cmd.Flag("file").Value.String()

	switch {
	case text != "":
		ad, err := jobad.FromText(text)
		if err != nil {
			return nil, err
		}
		return []*jobad.Ad{ad}, nil
	case file != "":
		ad, err := jobad.FromFile(file)
		if err != nil {
			return nil, err
		}
		return []*jobad.Ad{ad}, nil
	default:
		return jobad.LoadDir(config.Paths.Input, logger)
	}
}

func buildPipeline(cmd *cobra.Command, config *Config, generator ai.Generator, store *templates.Store, logger *zap.Logger) (*pipeline.Pipeline, error) {
	var temperature *float32
	if config.Gemini.Temperature != nil {
		temperature = ai.Float32(float32(*config.Gemini.Temperature))
	}

	composer := compose.New(generator, config.Profile, compose.Config{
		MaxLength:     config.Compose.MaxLength,
		BannedPhrases: config.Compose.BannedPhrases,
		Temperature:   temperature,
		MaxLogLength:  config.Gemini.MaxLogLength,
	}, logger)

	extractor := extract.New(generator, config.Gemini.MaxLogLength, logger)

	skipCompile := cmd.Flag("skip-compile").Value.String() == "true"
	keepTex := cmd.Flag("keep-tex").Value.String() == "true"

	deps := pipeline.Deps{
		Extractor: extractor,
		Composer:  composer,
		Store:     store,
		Compiler:  latex.New(keepTex, logger),
		Logger:    logger,
	}

	return pipeline.New(deps, pipeline.Options{
		Profile:       config.Profile,
		OutputDir:     config.Paths.Output,
		Instructions:  cmd.Flag("instructions").Value.String(),
		ForceTemplate: viper.GetString("template"),
		SkipCompile:   skipCompile,
	})
}
