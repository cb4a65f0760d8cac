// Package repl implements the interactive line console shared by the
// server and client modes. Commands exercise the dataset facades and
// print per-session sync progress.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	cfgpkg "github.com/seaward/tidemark/internal/config"
	"github.com/seaward/tidemark/internal/doclog"
	"github.com/seaward/tidemark/internal/model"
	"github.com/seaward/tidemark/internal/registry"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

// Repl drives the interactive console over an opened registry.
type Repl struct {
	Registry *registry.Registry
	Config   cfgpkg.Config
	Logger   logpkg.Logger
	In       io.Reader
	Out      io.Writer
}

// Run reads commands line by line until quit, EOF, or ctx cancellation.
// A background drainer prints each logical key as its content arrives.
func (r *Repl) Run(ctx context.Context) error {
	if r.Logger == nil {
		r.Logger = logpkg.Default().With(logpkg.Component("repl"))
	}
	dctx, dcancel := context.WithCancel(ctx)
	defer dcancel()
	r.drainNotifications(dctx)

	sc := bufio.NewScanner(r.In)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	r.printf("type 'help' for commands\n")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.printf("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		cmd, rest := args[0], args[1:]
		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			r.printHelp()
		case "status":
			r.printStatus()
		case "tickets":
			r.printf("%s\n", r.Registry.TicketLine(r.Config))
		case "add":
			r.cmdAdd(ctx, rest)
		case "get":
			r.cmdGet(rest)
		case "ls":
			r.cmdList()
		case "add_folder":
			r.cmdAddFolder(ctx, rest)
		case "get_folder":
			r.cmdGetFolder(rest)
		case "ls_folder":
			r.cmdListFolders()
		case "add_file":
			r.cmdAddFile(ctx, rest)
		case "add_dir":
			r.cmdAddDir(ctx, rest)
		case "events":
			r.cmdEvents(ctx, rest)
		default:
			r.printf("unknown command %q; type 'help'\n", cmd)
		}
	}
}

// drainNotifications announces every resolved key from every session.
func (r *Repl) drainNotifications(ctx context.Context) {
	for _, name := range r.Registry.Names(r.Config) {
		name := name
		sess := r.Registry.Session(name)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case key, ok := <-sess.Notifications():
					if !ok {
						return
					}
					r.printf("ready %s/%s\n", name, key)
				}
			}
		}()
	}
}

func (r *Repl) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Repl) printHelp() {
	r.printf(`commands:
  status                      show per-dataset sync progress
  tickets                     print the shareable ticket line
  add <id> <title> [body...]  store a node
  get <id>                    fetch a node
  ls                          list nodes
  add_folder <id> <name>      store a folder
  get_folder <id>             fetch a folder
  ls_folder                   list folders
  add_file <dataset> <path>   store a file as a resource
  add_dir <dataset> <dir>     store every file in a directory
  events <dataset> [filter]   dump the dataset's journal (optional CEL filter)
  quit                        exit
`)
}

func (r *Repl) printStatus() {
	for _, st := range r.Registry.Status(r.Config) {
		r.printf("%-10s meta=%-5v content=%-5v lifetime=%d/%dB queue=%d/%dB\n",
			st.Dataset, st.MetadataCaughtUp, st.AllContentMaterialized,
			st.LifetimePendingCount, st.LifetimePendingBytes,
			st.QueuePendingCount, st.QueuePendingBytes,
		)
	}
}

func (r *Repl) cmdAdd(ctx context.Context, args []string) {
	if len(args) < 2 {
		r.printf("usage: add <id> <title> [body...]\n")
		return
	}
	n := model.Node{ID: args[0], Title: args[1], Body: strings.Join(args[2:], " ")}
	if err := r.Registry.Nodes().Insert(ctx, n.ID, n); err != nil {
		r.printf("add: %v\n", err)
		return
	}
	r.printf("stored node %s\n", n.ID)
}

func (r *Repl) cmdGet(args []string) {
	if len(args) != 1 {
		r.printf("usage: get <id>\n")
		return
	}
	n, err := r.Registry.Nodes().Get(args[0])
	if err != nil {
		r.printf("get: %v\n", err)
		return
	}
	r.printf("%s: %s\n%s\n", n.ID, n.Title, n.Body)
}

func (r *Repl) cmdList() {
	nodes, err := r.Registry.Nodes().Search()
	if err != nil {
		r.printf("ls: %v\n", err)
		return
	}
	for _, n := range nodes {
		r.printf("%s  %s\n", n.ID, n.Title)
	}
	r.printf("%d node(s)\n", len(nodes))
}

func (r *Repl) cmdAddFolder(ctx context.Context, args []string) {
	if len(args) != 2 {
		r.printf("usage: add_folder <id> <name>\n")
		return
	}
	f := model.Folder{ID: args[0], Name: args[1]}
	if err := r.Registry.Folders().Insert(ctx, f.ID, f); err != nil {
		r.printf("add_folder: %v\n", err)
		return
	}
	r.printf("stored folder %s\n", f.ID)
}

func (r *Repl) cmdGetFolder(args []string) {
	if len(args) != 1 {
		r.printf("usage: get_folder <id>\n")
		return
	}
	f, err := r.Registry.Folders().Get(args[0])
	if err != nil {
		r.printf("get_folder: %v\n", err)
		return
	}
	r.printf("%s: %s\n", f.ID, f.Name)
}

func (r *Repl) cmdListFolders() {
	folders, err := r.Registry.Folders().Search()
	if err != nil {
		r.printf("ls_folder: %v\n", err)
		return
	}
	for _, f := range folders {
		r.printf("%s  %s\n", f.ID, f.Name)
	}
	r.printf("%d folder(s)\n", len(folders))
}

func (r *Repl) cmdAddFile(ctx context.Context, args []string) {
	if len(args) != 2 {
		r.printf("usage: add_file <dataset> <path>\n")
		return
	}
	store := r.Registry.Resources(args[0])
	if store == nil {
		r.printf("add_file: no resource dataset %q\n", args[0])
		return
	}
	res, err := model.LoadFile(args[1])
	if err != nil {
		r.printf("add_file: %v\n", err)
		return
	}
	if err := store.Insert(ctx, res.ID, res); err != nil {
		r.printf("add_file: %v\n", err)
		return
	}
	r.printf("stored resource %s (%s, %d bytes)\n", res.ID, res.Name, len(res.Blob))
}

func (r *Repl) cmdAddDir(ctx context.Context, args []string) {
	if len(args) != 2 {
		r.printf("usage: add_dir <dataset> <dir>\n")
		return
	}
	store := r.Registry.Resources(args[0])
	if store == nil {
		r.printf("add_dir: no resource dataset %q\n", args[0])
		return
	}
	resources, err := model.LoadDir(args[1])
	if err != nil {
		r.printf("add_dir: %v\n", err)
		return
	}
	for _, res := range resources {
		if err := store.Insert(ctx, res.ID, res); err != nil {
			r.printf("add_dir: %s: %v\n", res.Name, err)
			return
		}
		r.printf("stored resource %s (%s, %d bytes)\n", res.ID, res.Name, len(res.Blob))
	}
}

// cmdEvents dumps the journal so far, optionally narrowed by a CEL
// filter, then stops once the stream idles.
func (r *Repl) cmdEvents(ctx context.Context, args []string) {
	if len(args) < 1 {
		r.printf("usage: events <dataset> [filter]\n")
		return
	}
	h := r.Registry.Handle(args[0])
	if h == nil {
		r.printf("events: no dataset %q\n", args[0])
		return
	}
	filter := strings.Join(args[1:], " ")
	ectx, ecancel := context.WithCancel(ctx)
	defer ecancel()
	sub, err := h.Log.Subscribe(ectx, doclog.SubscribeOptions{From: "earliest", Filter: filter})
	if err != nil {
		r.printf("events: %v\n", err)
		return
	}
	defer sub.Close()
	n := 0
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			r.printEvent(ev)
			n++
		case <-time.After(300 * time.Millisecond):
			r.printf("%d event(s)\n", n)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Repl) printEvent(ev doclog.Event) {
	switch e := ev.(type) {
	case doclog.RemoteInsert:
		r.printf("remote-insert key=%s digest=%s size=%d peer=%s\n", e.Key, e.Digest, e.Size, e.Peer)
	case doclog.LocalInsert:
		r.printf("local-insert key=%s digest=%s size=%d\n", e.Entry.Key, e.Entry.Digest, e.Entry.Size)
	case doclog.ContentReady:
		r.printf("content-ready digest=%s\n", e.Digest)
	case doclog.AllClear:
		r.printf("all-clear\n")
	case doclog.PeerJoined:
		r.printf("peer-joined peer=%s\n", e.Peer)
	case doclog.PeerLeft:
		r.printf("peer-left peer=%s\n", e.Peer)
	case doclog.RoundComplete:
		r.printf("round-complete origin=%s\n", e.Origin)
	default:
		r.printf("%s\n", ev.Kind())
	}
}
