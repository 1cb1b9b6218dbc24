package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/EmpoweredVote/blog-backend/internal/client"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/spf13/cobra"
)

var (
	// Posts flags
	page      int
	limit     int
	title     string
	content   string
	published bool
	authorID  string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List, read, create and delete posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every post, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGateway()
		if err != nil {
			return err
		}
		list, err := g.ListPosts(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}
		printPosts(list)
		return nil
	},
}

var postsPublishedCmd = &cobra.Command{
	Use:   "published",
	Short: "List one page of published posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGateway()
		if err != nil {
			return err
		}
		res, err := g.ListPublished(cmd.Context(), page, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		printPosts(res.Posts)
		fmt.Printf("\npage %d of %d (%d posts)\n", res.Pagination.Page, res.Pagination.TotalPages, res.Pagination.Total)
		return nil
	},
}

var postsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid post id %q", args[0])
		}
		g, err := newGateway()
		if err != nil {
			return err
		}
		p, err := g.GetPost(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		printPosts([]models.Post{*p})
		if p.Content != nil {
			fmt.Printf("\n%s\n", *p.Content)
		}
		return nil
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post as the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGateway()
		if err != nil {
			return err
		}
		p, err := g.CreatePost(cmd.Context(), client.PostInput{
			Title:     title,
			Content:   content,
			Published: published,
			AuthorID:  authorID,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		fmt.Printf("Created post %d\n", p.ID)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post you wrote (admins: any post)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid post id %q", args[0])
		}
		g, err := newGateway()
		if err != nil {
			return err
		}
		if err := g.DeletePost(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted post %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd, postsPublishedCmd, postsGetCmd, postsCreateCmd, postsDeleteCmd)

	postsPublishedCmd.Flags().IntVar(&page, "page", 1, "Page number")
	postsPublishedCmd.Flags().IntVar(&limit, "limit", 8, "Posts per page")

	postsCreateCmd.Flags().StringVar(&title, "title", "", "Post title")
	postsCreateCmd.Flags().StringVar(&content, "content", "", "Post body")
	postsCreateCmd.Flags().BoolVar(&published, "published", false, "Publish immediately")
	postsCreateCmd.Flags().StringVar(&authorID, "author", "", "Author id (admins only; default: yourself)")
	_ = postsCreateCmd.MarkFlagRequired("title")
	_ = postsCreateCmd.MarkFlagRequired("content")
}

func printPosts(list []models.Post) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPUBLISHED\tCREATED")
	for _, p := range list {
		author := p.AuthorID
		if p.Author != nil {
			author = p.Author.Username
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", p.ID, p.Title, author, p.Published, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
