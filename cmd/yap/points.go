package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/yap-protocol/yap/pkg/datapoint"
)

type PointsCLI struct{}

func (c *PointsCLI) Run(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tTYPE\tORDER\tLENGTH")
	for _, dp := range datapoint.Default.All() {
		order := "-"
		if dp.Type != datapoint.String {
			order = dp.Order.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", dp.Name, dp.ID, dp.Type, order, dp.WireLength())
	}
	return tw.Flush()
}
