package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/npillmayer/cascade/dom/domdbg"
	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/style/cssom"
	"github.com/npillmayer/cascade/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cascade/dom/styledtree"
	"github.com/npillmayer/cascade/metrics"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

type configLoader func(*cobra.Command) (*Config, error)

// session is a styled document together with everything needed to inspect it.
type session struct {
	cfg    *Config
	tree   *ruletree.RuleTree
	doc    *styledtree.StyNode
	uaLock *style.SharedLock
	lock   *style.SharedLock
}

// guards acquires read guards for all stylesheets. Clients have to release them.
func (s *session) guards() *style.Guards {
	return &style.Guards{Author: s.lock.Read(), UAOrUser: s.uaLock.Read()}
}

// styleDocument parses an HTML file and its stylesheets and computes the rule
// nodes for all of its elements.
func styleDocument(cfg *Config, path string) (*session, error) {
	cfg.SetupTracing()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	htmldoc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s := &session{
		cfg:    cfg,
		tree:   ruletree.New(ruletree.GCInterval(cfg.RuleTree.GCInterval)),
		uaLock: style.NewSharedLock("ua+user"),
		lock:   style.NewSharedLock("author"),
	}
	sheets, err := loadStylesheets(cfg, htmldoc, s.uaLock, s.lock)
	if err != nil {
		return nil, err
	}
	matcher, err := cssom.NewMatcher(sheets...)
	if err != nil && !errors.Is(err, cssom.ErrInvalidSelector) {
		return nil, err
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	styler := styledtree.NewStyler(s.tree, matcher, s.lock, cfg.RuleTree.Workers)
	guards := s.guards()
	defer guards.Release()
	if s.doc, err = styler.Build(htmldoc, guards); err != nil {
		return nil, err
	}
	return s, nil
}

func loadStylesheets(cfg *Config, htmldoc *html.Node, uaLock, lock *style.SharedLock) ([]cssom.StyleSheet, error) {
	uaText := ""
	if cfg.Style.UserAgentCSS != "" {
		b, err := os.ReadFile(cfg.Style.UserAgentCSS)
		if err != nil {
			return nil, err
		}
		uaText = string(b)
	}
	ua, err := douceuradapter.UserAgentStyles(uaText, uaLock)
	if err != nil {
		return nil, err
	}
	sheets := []cssom.StyleSheet{ua}
	if cfg.Style.UserCSS != "" {
		b, err := os.ReadFile(cfg.Style.UserCSS)
		if err != nil {
			return nil, err
		}
		user, err := douceuradapter.Parse(string(b), ruletree.OriginUser, uaLock)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, user)
	}
	authors, err := douceuradapter.ExtractStyleElements(htmldoc, lock)
	if err != nil {
		return nil, err
	}
	for _, a := range authors {
		sheets = append(sheets, a)
	}
	return sheets, nil
}

func newDumpCommand(loadCfg configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "dump document.html",
		Short: "Print the rule tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg(cmd)
			if err != nil {
				return err
			}
			s, err := styleDocument(cfg, args[0])
			if err != nil {
				return err
			}
			guards := s.guards()
			defer guards.Release()
			if err := s.tree.Dump(cmd.OutOrStdout(), guards); err != nil {
				return err
			}
			return printAuthorStyled(cmd.OutOrStdout(), s, guards)
		},
	}
}

// printAuthorStyled lists the elements with author-styled backgrounds,
// borders or padding.
func printAuthorStyled(w io.Writer, s *session, guards *style.Guards) error {
	mask := ruletree.AuthorSpecifiedBackground | ruletree.AuthorSpecifiedBorder | ruletree.AuthorSpecifiedPadding
	var err error
	s.doc.Walk(func(sn *styledtree.StyNode) {
		if err == nil && sn.HasAuthorSpecifiedRules(ruletree.PseudoNone, guards, mask, s.cfg.Style.AuthorColors) {
			_, err = fmt.Fprintf(w, "author-styled: %s\n", sn)
		}
	})
	return err
}

func newDotCommand(loadCfg configLoader) *cobra.Command {
	var withElements bool
	cmd := &cobra.Command{
		Use:   "dot document.html",
		Short: "Write the rule tree of a document in GraphViz format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg(cmd)
			if err != nil {
				return err
			}
			s, err := styleDocument(cfg, args[0])
			if err != nil {
				return err
			}
			guards := s.guards()
			defer guards.Release()
			var doc *styledtree.StyNode
			if withElements {
				doc = s.doc
			}
			return domdbg.ToGraphViz(s.tree, cmd.OutOrStdout(), guards, doc)
		},
	}
	cmd.Flags().BoolVar(&withElements, "elements", false, "include document elements")
	return cmd
}

func newStatsCommand(loadCfg configLoader) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "stats document.html",
		Short: "Print rule tree statistics, optionally serving them to Prometheus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg(cmd)
			if err != nil {
				return err
			}
			s, err := styleDocument(cfg, args[0])
			if err != nil {
				return err
			}
			st := s.tree.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "nodes created: %d\nnodes live:    %d\nchild hits:    %d\nchild misses:  %d\n",
				st.NodesCreated, st.Live(), st.ChildHits, st.ChildMisses)
			if listen == "" {
				return nil
			}
			handler, err := metrics.Handler(s.tree, "cascade")
			if err != nil {
				return err
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", handler)
			fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on %s/metrics\n", listen)
			return http.ListenAndServe(listen, mux)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to serve /metrics on, e.g. :9090")
	return cmd
}
