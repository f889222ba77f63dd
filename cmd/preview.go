package cmd

import (
	"context"
	"log"

	"github.com/tsailly/lettre-gen/internal/assemble"
	"github.com/tsailly/lettre-gen/internal/jobad"
	"github.com/tsailly/lettre-gen/internal/latex"
	"github.com/tsailly/lettre-gen/internal/logger"
	"github.com/tsailly/lettre-gen/internal/profile"
	"github.com/tsailly/lettre-gen/internal/templates"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// sampleBody fills %%CORPS_LETTRE%% in previews so line breaking and page
// layout look realistic without a generative call.
const sampleBody = `Votre offre a retenu toute mon attention et correspond précisément à mon projet professionnel. Les missions décrites, centrées sur la conception et l'amélioration continue, rejoignent les compétences que j'ai développées au cours de ma formation.

Ma formation m'a permis d'acquérir des bases solides en simulation, en calcul et en programmation. Mes expériences passées m'ont appris la rigueur, l'organisation et le travail en équipe sur des projets exigeants.

Curieux et force de proposition, je serais ravi de mettre mes compétences au service de votre équipe et d'échanger avec vous sur ma candidature.`

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fill every template with sample values and compile preview PDFs",
	Run: func(cmd *cobra.Command, _ []string) {
		preview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func preview(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if !latex.Available() {
		logger.Fatal("pdflatex not found in PATH",
			zap.String("hint", "install a LaTeX distribution to compile previews"),
		)
	}

	store, err := templates.LoadDir(config.Paths.Templates)
	if err != nil {
		logger.Fatal("loading letter templates", zap.Error(err))
	}

	prof := config.Profile
	if prof == nil || prof.Validate() != nil {
		prof = &profile.Profile{
			FullName:   "Prénom NOM",
			Address:    "Adresse complète",
			PostalCity: "Code postal Ville",
			Email:      "email@example.com",
			Phone:      "06 XX XX XX XX",
		}
	}

	info := &jobad.Info{
		Title:   "Intitulé du poste",
		Company: "Nom de l'entreprise",
	}

	compiler := latex.New(false, logger)

	for _, id := range store.IDs() {
		doc := assemble.Build(assemble.Input{
			Template: store.Get(id),
			Profile:  prof,
			Body:     sampleBody,
			Info:     info,
			Ad:       &jobad.Ad{Name: id + ".txt"},
		})

		pdfPath, err := compiler.Compile(ctx, doc.Text, config.Paths.Output, id+"_preview")
		if err != nil {
			logger.Error("preview compilation failed",
				zap.String("template", id),
				zap.Error(err),
			)
			continue
		}

		logger.Info("preview generated",
			zap.String("template", id),
			zap.String("pdf", pdfPath),
		)
	}
}
