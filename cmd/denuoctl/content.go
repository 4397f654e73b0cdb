package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/store"
	"github.com/debemdeboas/denuo-web/internal/util"
)

// readContent decodes a JSON or YAML document, chosen by file extension.
func readContent(path string) (*model.SiteContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := &model.SiteContent{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, doc)
	default:
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return doc, nil
}

func newSeedCmd() *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Publish a content document from a YAML or JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc *model.SiteContent
			switch {
			case useDefaults:
				doc = model.DefaultContent()
			case len(args) == 1:
				var err error
				if doc, err = readContent(args[0]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("a file or --defaults is required")
			}

			cfg := config.AppConfig.Store
			docs, err := store.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer docs.Close()

			key := model.DocumentKey(cfg.DocumentKey)
			if err := docs.Set(cmd.Context(), key, doc); err != nil {
				return err
			}

			hash, _ := util.DocumentHash(doc)
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Published %s (%s) to %s", key, util.ShortHash(hash), cfg.Backend)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "publish the built-in default content")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the published content document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig.Store
			docs, err := store.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer docs.Close()

			doc, err := docs.Get(cmd.Context(), model.DocumentKey(cfg.DocumentKey))
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(doc, "", "  ")
				out = append(out, '\n')
			case "yaml":
				out, err = yaml.Marshal(doc)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
