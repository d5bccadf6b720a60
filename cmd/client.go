package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/haierkeys/voice-notes-service/internal/client"
	"github.com/haierkeys/voice-notes-service/internal/client/notestore"
	"github.com/haierkeys/voice-notes-service/internal/client/recorder"
	"github.com/haierkeys/voice-notes-service/internal/client/session"

	"github.com/spf13/cobra"
)

type clientFlags struct {
	server  string
	dataDir string
}

var clientEnv = new(clientFlags)

// newClient assembles the client against the configured backend and runs
// the cold-boot sequence.
func newClient(ctx context.Context) (*client.Client, error) {
	logger := bootstrapLogger

	gate := session.NewGate(clientEnv.server, clientEnv.dataDir, logger)
	local := notestore.NewLocalStore(clientEnv.dataDir, logger)
	remote := notestore.NewRemoteStore(clientEnv.server, gate.Token)
	repo := notestore.NewRepository(local, remote, gate, logger)

	c := client.New(gate, repo, recorder.New(), remote, logger)
	if err := c.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func printNote(n *notestore.Note) {
	marks := ""
	if n.IsPinned {
		marks += " [pinned]"
	}
	if n.IsFavorited {
		marks += " [favorited]"
	}
	fmt.Printf("%s%s  %s\n", n.ID, marks, n.Title)
	if n.Content != "" {
		fmt.Printf("    %s\n", n.Content)
	}
	fmt.Printf("    updated %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
}

func parseNoteIDArg(arg string) (notestore.NoteID, error) {
	id, err := notestore.ParseNoteID(arg)
	if err != nil {
		return notestore.NoteID{}, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

func init() {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Interact with a voice notes backend from the terminal",
	}
	pfs := clientCmd.PersistentFlags()
	pfs.StringVarP(&clientEnv.server, "server", "s", "http://127.0.0.1:9000", "backend base URL")
	pfs.StringVarP(&clientEnv.dataDir, "data-dir", "D", "storage/client", "local state directory")

	var email, password, nickname string

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Gate().SignUp(cmd.Context(), email, password, nickname); err != nil {
				return err
			}
			fmt.Printf("signed up as %s\n", email)
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	registerCmd.Flags().StringVarP(&nickname, "nickname", "n", "", "display name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Gate().SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", email)
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and return to local-only notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			c.Gate().SignOut()
			fmt.Println("signed out")
			return nil
		},
	}

	recordCmd := &cobra.Command{
		Use:   "record <audio-file>",
		Short: "Turn a recorded audio file into a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			rec := c.Recorder()
			if err := rec.Start(); err != nil {
				return err
			}
			if err := rec.AddChunk(blob); err != nil {
				return err
			}

			result, err := c.RecordAndProcess(cmd.Context())
			if err != nil {
				return err
			}

			printNote(result.Note)
			if result.Prompt != "" {
				fmt.Println(result.Prompt)
			}
			return nil
		},
	}

	var addContent string
	addCmd := &cobra.Command{
		Use:   "add <title> [content]",
		Short: "Create a note without recording",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			content := addContent
			if len(args) == 2 {
				content = args[1]
			}
			note, err := c.Repository().Create(cmd.Context(), args[0], content)
			if err != nil {
				return err
			}
			printNote(note)
			if !c.Gate().SignedIn() {
				fmt.Println(client.SignInPrompt)
			}
			return nil
		},
	}
	addCmd.Flags().StringVarP(&addContent, "content", "C", "", "note content")

	var listRecent int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, pinned first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			notes := c.Repository().Display()
			if listRecent > 0 {
				notes = c.Repository().Recent(listRecent)
			}
			if len(notes) == 0 {
				fmt.Println("no notes")
				return nil
			}
			for _, n := range notes {
				printNote(n)
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&listRecent, "recent", "r", 0, "show only the n most recent notes")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes by title and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			notes := c.Repository().Search(args[0])
			if len(notes) == 0 {
				fmt.Println("no matching notes")
				return nil
			}
			for _, n := range notes {
				printNote(n)
			}
			return nil
		},
	}

	toggle := func(use, short string, set func(*notestore.NoteUpdate, bool), value bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newClient(cmd.Context())
				if err != nil {
					return err
				}
				id, err := parseNoteIDArg(args[0])
				if err != nil {
					return err
				}
				upd := new(notestore.NoteUpdate)
				set(upd, value)
				return c.Repository().Update(cmd.Context(), id, upd)
			},
		}
	}

	pinCmd := toggle("pin", "Pin a note to the top of the list",
		func(u *notestore.NoteUpdate, v bool) { u.IsPinned = &v }, true)
	unpinCmd := toggle("unpin", "Unpin a note",
		func(u *notestore.NoteUpdate, v bool) { u.IsPinned = &v }, false)
	favoriteCmd := toggle("favorite", "Mark a note as favorite",
		func(u *notestore.NoteUpdate, v bool) { u.IsFavorited = &v }, true)
	unfavoriteCmd := toggle("unfavorite", "Unmark a favorite note",
		func(u *notestore.NoteUpdate, v bool) { u.IsFavorited = &v }, false)

	var editTitle, editContent string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseNoteIDArg(args[0])
			if err != nil {
				return err
			}
			upd := new(notestore.NoteUpdate)
			if cmd.Flags().Changed("title") {
				upd.Title = &editTitle
			}
			if cmd.Flags().Changed("content") {
				upd.Content = &editContent
			}
			if upd.Title == nil && upd.Content == nil {
				return fmt.Errorf("nothing to change, pass --title or --content")
			}
			return c.Repository().Update(cmd.Context(), id, upd)
		},
	}
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editContent, "content", "C", "", "new content")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseNoteIDArg(args[0])
			if err != nil {
				return err
			}
			if err := c.Repository().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}

	clientCmd.AddCommand(registerCmd, loginCmd, logoutCmd, recordCmd, addCmd,
		listCmd, searchCmd, pinCmd, unpinCmd, favoriteCmd, unfavoriteCmd,
		editCmd, deleteCmd)
	rootCmd.AddCommand(clientCmd)
}
