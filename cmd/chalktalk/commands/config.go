package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage backend contexts",
}

var configAddFlags struct {
	backend string
	apiKey  string
	baseURL string
	model   string
}

var configAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a backend context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		err = cfg.AddContext(args[0], &cli.Context{
			Backend: configAddFlags.backend,
			APIKey:  configAddFlags.apiKey,
			BaseURL: configAddFlags.baseURL,
			Model:   configAddFlags.model,
		})
		if err != nil {
			return err
		}
		cli.PrintSuccess("context %q saved", args[0])
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Select the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("current context is %q", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		slices.Sort(names)
		for _, name := range names {
			ctx := cfg.Contexts[name]
			marker := " "
			if name == cfg.CurrentContext {
				marker = "*"
			}
			fmt.Printf("%s %-16s %-8s %-24s %s\n",
				marker, name, ctx.Backend, ctx.Model, cli.MaskAPIKey(ctx.APIKey))
		}
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("context %q deleted", args[0])
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&configAddFlags.backend, "backend", cli.BackendOpenAI, "generation backend (openai|gemini)")
	configAddCmd.Flags().StringVar(&configAddFlags.apiKey, "api-key", "", "backend API key")
	configAddCmd.Flags().StringVar(&configAddFlags.baseURL, "base-url", "", "endpoint override for OpenAI-compatible providers")
	configAddCmd.Flags().StringVar(&configAddFlags.model, "model", "", "model name")
	configAddCmd.MarkFlagRequired("api-key")
	configAddCmd.MarkFlagRequired("model")

	configCmd.AddCommand(configAddCmd, configUseCmd, configListCmd, configDeleteCmd)
	rootCmd.AddCommand(configCmd)
}
