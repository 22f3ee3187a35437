package commands

import (
	"strings"

	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/pkg/host"
	"github.com/spf13/cobra"
)

// NewHostsCommand creates the hosts command.
func NewHostsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List available hosts",
		Long: `List the registered hosts with the file extensions they handle and
whether they are enabled in nameof.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			cmdCtx.WithFormat(cmd, format)
			return listHosts(cmdCtx)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func collectHosts(cmdCtx *CommandContext) []output.HostInfo {
	enabled := make(map[string]bool)
	for _, name := range cmdCtx.Cfg.Project().EnabledHosts() {
		enabled[name] = true
	}

	var infos []output.HostInfo
	for _, name := range host.List() {
		h, err := cmdCtx.NewHost(name)
		if err != nil {
			continue
		}
		infos = append(infos, output.HostInfo{
			Name:       name,
			Extensions: h.Extensions(),
			Enabled:    enabled[name],
		})
	}
	return infos
}

func listHosts(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	infos := collectHosts(cmdCtx)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.HostsOutput{Hosts: infos})
	}

	r.Header(1, "Hosts")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		status := "enabled"
		if !info.Enabled {
			status = "disabled"
		}
		rows = append(rows, []string{info.Name, strings.Join(info.Extensions, " "), status})
	}
	r.Table([]string{"Host", "Extensions", "Status"}, rows)
	return nil
}
