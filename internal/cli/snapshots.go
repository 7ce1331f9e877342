package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/store"
)

// newSnapshotsCmd creates the snapshots command group for managing stored
// meshes.
func newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage stored mesh snapshots",
	}
	cmd.AddCommand(newSnapshotsListCmd())
	cmd.AddCommand(newSnapshotsShowCmd())
	cmd.AddCommand(newSnapshotsDeleteCmd())
	cmd.AddCommand(newSnapshotsBrowseCmd())
	return cmd
}

func newSnapshotsListCmd() *cobra.Command {
	var opts storeOpts
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No snapshots stored")
				return nil
			}
			for _, info := range infos {
				fmt.Println(StyleValue.Render(info.ID) + "  " +
					info.Name + "  " + StyleDim.Render(info.CreatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newSnapshotsShowCmd() *cobra.Command {
	var opts storeOpts
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printSnapshot(snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	opts.register(cmd)
	return cmd
}

func newSnapshotsDeleteCmd() *cobra.Command {
	var opts storeOpts
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func printSnapshot(snap *store.Snapshot) {
	fmt.Println(StyleTitle.Render(snap.Name))
	printDetail("id: %s", snap.ID)
	printDetail("created: %s", snap.CreatedAt.Format("2006-01-02 15:04:05"))
	printDetail("variant: %s", snap.Mesh.Variant)

	g, err := meshgraph.Decode(snap.Mesh)
	if err != nil {
		printError("corrupt mesh payload: %v", err)
		return
	}
	printDetail("%d vertices · %d triangles · %d hanging",
		g.VertexCount(), g.InteriorCount(), g.HangingCount())
}

// saveSnapshot stores the mesh and returns the new snapshot ID.
func saveSnapshot(ctx context.Context, g meshgraph.MeshGraph, name string, opts *storeOpts) (string, error) {
	st, err := opts.open(ctx)
	if err != nil {
		return "", err
	}
	defer st.Close()

	snap := store.NewSnapshot(name, g)
	if err := st.Put(ctx, snap); err != nil {
		return "", err
	}
	return snap.ID, nil
}
