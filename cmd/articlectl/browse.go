package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/article-cms-api/internal/pager"
)

const browseHelp = "n: next, p: prev, <number>: go to page, r: refresh, q: quit"

// browse runs the interactive page loop until q, EOF or ctx is done
func browse(ctx context.Context, p *pager.Pager, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	render(p, out)

	for {
		fmt.Fprint(out, "> ")
		if ctx.Err() != nil || !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "q", "quit":
			return nil
		case "", "n":
			if !p.NextPage(ctx) {
				fmt.Fprintln(out, "already on the last page")
				continue
			}
		case "p":
			if !p.PrevPage(ctx) {
				fmt.Fprintln(out, "already on the first page")
				continue
			}
		case "r":
			// redraw once an in-flight batch has arrived
			p.Wait()
		case "?", "h", "help":
			fmt.Fprintln(out, browseHelp)
			continue
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintln(out, browseHelp)
				continue
			}
			if !p.GoToPage(ctx, n) {
				fmt.Fprintf(out, "page %d is out of range 1-%d\n", n, p.TotalPages())
				continue
			}
		}
		render(p, out)
	}
}

func render(p *pager.Pager, out io.Writer) {
	page := p.CurrentPage()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLANG\tPUBLISHED\tVIEWS")
	for _, s := range page {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\n", s.ID, s.Title, s.Lang, s.IsPublished, s.Views)
	}
	tw.Flush()

	if len(page) == 0 && p.IsLoading() {
		fmt.Fprintln(out, "loading... (r to refresh)")
	}

	fmt.Fprintf(out, "page %d of %s  [%s]  %d articles\n",
		p.CurrentPageNumber(), totalLabel(p), pageBar(p), p.TotalArticles())
}

func totalLabel(p *pager.Pager) string {
	if p.HasMore() {
		return strconv.Itoa(p.TotalPages()) + "+"
	}
	return strconv.Itoa(p.TotalPages())
}

func pageBar(p *pager.Pager) string {
	current := p.CurrentPageNumber()
	parts := make([]string, 0, 7)
	for _, n := range p.PageNumbers() {
		switch n {
		case pager.Ellipsis:
			parts = append(parts, "...")
		case current:
			parts = append(parts, "("+strconv.Itoa(n)+")")
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, " ")
}
