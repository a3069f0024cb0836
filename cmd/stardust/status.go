package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"stardust/internal/domain"
	"stardust/internal/engine"
)

func newStatusCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the saved run after catching up offline progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer sess.Close()
			out := cmd.OutOrStdout()
			state := sess.svc.GetState()
			writeStatus(out, state)
			writeShop(out, sess.eng, state)
			return nil
		},
	}
}

func statusLine(s domain.Snapshot) string {
	return fmt.Sprintf("zone %d level %d | %s stardust | %s dps | combo %d",
		s.Zone, s.Ship.Level, humanize.Commaf(floor(s.Stardust)), humanize.Commaf(floor(s.DPS)), s.ComboCount)
}

func writeStatus(w io.Writer, s domain.Snapshot) {
	target := "ship"
	if s.Ship.IsBoss {
		target = fmt.Sprintf("boss (%d/%d generators up)", len(s.Ship.AliveGenerators()), len(s.Ship.Generators))
	}
	fmt.Fprintf(w, "Zone %d, level %d: %s %s/%s hp\n", s.Zone, s.Ship.Level, target,
		humanize.Commaf(floor(s.Ship.HP)), humanize.Commaf(floor(s.Ship.MaxHP)))
	fmt.Fprintf(w, "Stardust:     %s (lifetime %s)\n", humanize.Commaf(floor(s.Stardust)), humanize.Commaf(floor(s.TotalEarned)))
	fmt.Fprintf(w, "Click / DPS:  %s / %s\n", humanize.Commaf(floor(s.ClickDamage)), humanize.Commaf(floor(s.DPS)))
	fmt.Fprintf(w, "Crit:         %.1f%% x%.2f\n", s.CritChance*100, s.CritMult)
	fmt.Fprintf(w, "Prestige:     %d runs, %s gems\n", s.TotalPrestiges, humanize.Comma(s.PrestigeGems))
	fmt.Fprintf(w, "Unicorns:     %d\n", s.UnicornCount)
	fmt.Fprintf(w, "Clicks:       %s\n", humanize.Comma(s.Stats.TotalClicks))
	if len(s.Achievements) > 0 {
		fmt.Fprintf(w, "Achievements: %s\n", strings.Join(s.Achievements, ", "))
	}
}

// writeShop lists every upgrade with its level and the price of the next one.
func writeShop(w io.Writer, eng *engine.Engine, s domain.Snapshot) {
	fmt.Fprintln(w, "Upgrades:")
	for _, u := range eng.Registry().Upgrades {
		cost, _ := eng.UpgradeCost(s, u.ID)
		mark := " "
		if cost <= s.Stardust {
			mark = "*"
		}
		fmt.Fprintf(w, " %s %-15s lv %-4d next %s\n", mark, u.ID, s.UpgradeLevel(u.ID), humanize.Commaf(cost))
	}
}

func floor(v float64) float64 {
	return math.Floor(v)
}
