// Package cli provides template management commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/events"
	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/templates"
)

var (
	// template create/update flags
	tmplName        string
	tmplDescription string
	tmplContent     string
	tmplFile        string

	// template render flags
	tmplRenderVars []string
)

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateRenderCmd)

	templateCreateCmd.Flags().StringVar(&tmplName, "name", "", "template name (required)")
	templateCreateCmd.Flags().StringVar(&tmplDescription, "description", "", "template description")
	templateCreateCmd.Flags().StringVar(&tmplContent, "content", "", "template content")
	templateCreateCmd.Flags().StringVar(&tmplFile, "file", "", "read content from file")
	templateCreateCmd.MarkFlagRequired("name")

	templateUpdateCmd.Flags().StringVar(&tmplName, "name", "", "new template name")
	templateUpdateCmd.Flags().StringVar(&tmplDescription, "description", "", "new description")
	templateUpdateCmd.Flags().StringVar(&tmplContent, "content", "", "new content")
	templateUpdateCmd.Flags().StringVar(&tmplFile, "file", "", "read content from file")

	templateRenderCmd.Flags().StringArrayVar(&tmplRenderVars, "var", nil, "sample value override (key=value, repeatable)")
}

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tmpl"},
	Short:   "Manage prompt templates",
	Long: `Manage prompt templates.

Templates contain {{placeholder}} markers that are substituted with
account and agent values when a prompt is built.`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		list, err := db.NewTemplateRepository(database).List(cmd.Context())
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, list)
		}

		rows := make([][]string, 0, len(list))
		for _, tmpl := range list {
			rows = append(rows, []string{
				tmpl.ID[:8],
				tmpl.Name,
				fmt.Sprintf("v%d", tmpl.Version),
				fmt.Sprintf("%d", len(templates.Placeholders(tmpl.Content))),
				tmpl.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		return writeTable(os.Stdout, []string{"ID", "NAME", "VERSION", "PLACEHOLDERS", "UPDATED"}, rows)
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		tmpl, err := findTemplate(cmd, db.NewTemplateRepository(database), args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, tmpl)
		}

		fmt.Printf("Name:        %s\n", tmpl.Name)
		fmt.Printf("ID:          %s\n", tmpl.ID)
		fmt.Printf("Version:     %d\n", tmpl.Version)
		if tmpl.Description != "" {
			fmt.Printf("Description: %s\n", tmpl.Description)
		}
		if ids := templates.Placeholders(tmpl.Content); len(ids) > 0 {
			fmt.Printf("Placeholders: %s\n", strings.Join(ids, ", "))
		}
		fmt.Printf("\n%s\n", tmpl.Content)
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template",
	Example: `  # Inline content
  sharesub template create --name brief --content "现金: {{cash}}"

  # Content from a file
  sharesub template create --name decision --file prompt.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := resolveContent()
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		tmpl := &models.Template{
			Name:        tmplName,
			Description: tmplDescription,
			Content:     content,
		}
		repo := db.NewTemplateRepository(database)
		if err := repo.Create(cmd.Context(), tmpl); err != nil {
			return err
		}
		logTemplateEvent(cmd, database, models.EventTypeTemplateCreated, tmpl)

		fmt.Printf("Created template %s (%s)\n", tmpl.Name, tmpl.ID[:8])
		warnRenderProblems(tmpl.Content)
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <id-or-name>",
	Short: "Update a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewTemplateRepository(database)
		tmpl, err := findTemplate(cmd, repo, args[0])
		if err != nil {
			return err
		}

		if tmplName != "" {
			tmpl.Name = tmplName
		}
		if tmplDescription != "" {
			tmpl.Description = tmplDescription
		}
		if tmplContent != "" || tmplFile != "" {
			content, err := resolveContent()
			if err != nil {
				return err
			}
			tmpl.Content = content
		}

		if err := repo.Update(cmd.Context(), tmpl); err != nil {
			return err
		}
		logTemplateEvent(cmd, database, models.EventTypeTemplateUpdated, tmpl)

		fmt.Printf("Updated template %s (now v%d)\n", tmpl.Name, tmpl.Version)
		warnRenderProblems(tmpl.Content)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewTemplateRepository(database)
		tmpl, err := findTemplate(cmd, repo, args[0])
		if err != nil {
			return err
		}

		if err := repo.Delete(cmd.Context(), tmpl.ID); err != nil {
			return err
		}
		logTemplateEvent(cmd, database, models.EventTypeTemplateDeleted, tmpl)

		fmt.Printf("Deleted template %s\n", tmpl.Name)
		return nil
	},
}

var templateRenderCmd = &cobra.Command{
	Use:   "render <id-or-name>",
	Short: "Render a template against sample data",
	Long: `Render a template against the built-in sample data.

Sample values can be overridden with repeated --var key=value flags.
Rendering never fails hard; problems are reported as warnings and
unresolved placeholders stay in the output verbatim.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseVars(tmplRenderVars)
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		tmpl, err := findTemplate(cmd, db.NewTemplateRepository(database), args[0])
		if err != nil {
			return err
		}

		data := templates.DefaultSampleData()
		for key, value := range overrides {
			data[key] = value
		}
		result := templates.Render(tmpl.Content, data)

		if IsJSONOutput() {
			return WriteOutput(os.Stdout, result)
		}

		fmt.Println(result.RenderedContent)
		for _, problem := range result.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", problem)
		}
		return nil
	},
}

// findTemplate resolves a template by ID first, then by name.
func findTemplate(cmd *cobra.Command, repo *db.TemplateRepository, idOrName string) (*models.Template, error) {
	tmpl, err := repo.Get(cmd.Context(), idOrName)
	if err == nil {
		return tmpl, nil
	}
	return repo.GetByName(cmd.Context(), idOrName)
}

func resolveContent() (string, error) {
	if tmplFile != "" {
		data, err := os.ReadFile(tmplFile)
		if err != nil {
			return "", fmt.Errorf("read content file: %w", err)
		}
		return string(data), nil
	}
	if tmplContent == "" {
		return "", fmt.Errorf("either --content or --file is required")
	}
	return tmplContent, nil
}

// parseVars parses repeated key=value flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[strings.TrimSpace(key)] = value
	}
	return vars, nil
}

func warnRenderProblems(content string) {
	result := templates.Render(content, templates.DefaultSampleData())
	for _, problem := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", problem)
	}
}

func logTemplateEvent(cmd *cobra.Command, database *db.DB, eventType models.EventType, tmpl *models.Template) {
	if err := events.LogTemplateChanged(cmd.Context(), db.NewEventRepository(database), eventType, tmpl); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record event: %v\n", err)
	}
}
