package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stardust/internal/commands"
	"stardust/internal/config"
	"stardust/internal/log"
	"stardust/internal/store"
)

func newExportCmd(f *flags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved run as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer sess.Close()

			export := &commands.ExportSave{ID: "cli-export"}
			if _, err := sess.svc.Execute(export); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(append(export.Data, '\n'))
				return err
			}
			if err := os.WriteFile(out, export.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info("save exported", "path", out, "bytes", len(export.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination file (default stdout)")
	return cmd
}

func newImportCmd(f *flags) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the saved run with an exported JSON save",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				data []byte
				err  error
			)
			if in == "" || in == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(in)
			}
			if err != nil {
				return fmt.Errorf("read save: %w", err)
			}

			sess, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer sess.Close()

			evs, err := sess.svc.Execute(commands.ImportSave{ID: "cli-import", Data: data})
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			for _, ev := range evs {
				log.Info("import event", "type", ev.Type, "data", ev.Data)
			}
			writeStatus(cmd.OutOrStdout(), sess.svc.GetState())
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "source file (default stdin)")
	return cmd
}

func newSavesCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List the save keys stored in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if f.dbPath != "" {
				cfg.Storage.Path = f.dbPath
			}
			st, err := store.OpenSQLite(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			keys, err := st.Keys(cmd.Context())
			if err != nil {
				return fmt.Errorf("list saves: %w", err)
			}
			for _, k := range keys {
				mark := " "
				if k == cfg.Storage.SaveKey {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, k)
			}
			return nil
		},
	}
}
