package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newInstrumentCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "instrument",
		Short: "Print the question map and scale in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(false)
			if err != nil {
				return err
			}
			inst := engine.Instrument()

			out := cmd.OutOrStdout()
			if root.Output != formatTable {
				return encode(out, root.Output, inst)
			}

			var buf strings.Builder
			fmt.Fprintf(&buf, "Scale %d..%d, tie tolerance %g\n\n", inst.ScaleMin, inst.ScaleMax, inst.Epsilon)
			t := newTable("Item", "Category", "Reversed")
			for _, it := range inst.Items {
				reversed := ""
				if it.Reversed {
					reversed = "yes"
				}
				t.Row(it.ItemID, string(it.Category), reversed)
			}
			buf.WriteString(t.String())
			buf.WriteString("\n")

			_, err = io.WriteString(out, buf.String())
			return err
		},
	}
}
