package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonewx/restoration/pkg/outline"
)

var (
	outlineVariant string
	outlineWidth   int
	outlineRaw     bool
)

// outlineCmd 在终端中打印变体的内容大纲
var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Print a variant's content as a terminal outline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := loadContent()
		if err != nil {
			return err
		}
		site, err := content.Site(outlineVariant)
		if err != nil {
			return err
		}

		if outlineRaw {
			fmt.Fprint(cmd.OutOrStdout(), outline.Markdown(site))
			return nil
		}
		out, err := outline.Render(site, outlineWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	outlineCmd.Flags().StringVar(&outlineVariant, "variant", "", "Variant to print (default: default variant)")
	outlineCmd.Flags().IntVar(&outlineWidth, "width", outline.DefaultWidth, "Word wrap width")
	outlineCmd.Flags().BoolVar(&outlineRaw, "raw", false, "Print the markdown source")
}
