package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"catalog-admin/internal/domain"
	gormpersistence "catalog-admin/internal/infra/persistence/gorm"
	"catalog-admin/internal/infra/setup"
	"catalog-admin/internal/service"
)

func newPostsCmd(opts *rootOptions) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect catalog posts",
	}

	var jsonOutput bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer setup.CloseDB(db)

			postService := service.NewPostService(gormpersistence.NewGormStore(db), nil, nil)
			posts, err := postService.ListPosts(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(posts)
			}
			return printPosts(cmd, posts)
		},
	}
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	postsCmd.AddCommand(listCmd)
	return postsCmd
}

func printPosts(cmd *cobra.Command, posts []domain.Post) error {
	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPUBLISHED\tAUTHOR")
	for _, p := range posts {
		author := fmt.Sprintf("#%d", p.AuthorID)
		if p.Author != nil {
			author = p.Author.Email
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", p.ID, p.Title, p.Published, author)
	}
	return w.Flush()
}
