package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mcsmith/internal/app"
	"go.trai.ch/mcsmith/internal/core/domain"
)

const sourceHelp = `Sources are written as kind:id[@version[#build]], for example
modrinth:luckperms, modrinth:luckperms@5.4.120 or papermc:paper@1.21#11.
A plain http(s) URL adds a url source.`

func (c *CLI) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Declare a dependency in the server file",
		Long:  sourceHelp,
	}

	for _, t := range []domain.AddonType{domain.AddonPlugin, domain.AddonMod, domain.AddonInferred} {
		cmd.AddCommand(c.newAddAddonCmd(t))
	}
	cmd.AddCommand(c.newAddDatapackCmd())
	return cmd
}

func (c *CLI) newAddAddonCmd(addonType domain.AddonType) *cobra.Command {
	short := "Add a " + string(addonType)
	if addonType == domain.AddonInferred {
		short = "Add a plugin or mod depending on the server jar"
	}

	cmd := &cobra.Command{
		Use:   string(addonType) + " <source> [path]",
		Short: short,
		Long:  sourceHelp,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			return c.app.AddAddon(cmd.Context(), addonType, args[0], app.AddOptions{
				Path: pathArg(args, 1),
				Yes:  yes,
			})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Add even when a matching entry already exists")
	return cmd
}

func (c *CLI) newAddDatapackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datapack <source> [path]",
		Short: "Add a datapack to a world entry",
		Long:  sourceHelp,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, _ := cmd.Flags().GetString("world")
			return c.app.AddDatapack(cmd.Context(), args[0], app.AddOptions{
				Path:  pathArg(args, 1),
				World: world,
			})
		},
	}
	cmd.Flags().StringP("world", "w", "", "World entry to add the datapack to (asks when empty)")
	return cmd
}
