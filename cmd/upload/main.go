// Command upload pushes local files into a Rehearse skill folder with
// live per-file progress. Ctrl-C cancels everything still in flight.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"rehearse/internal/pkg/filepolicy"
	"rehearse/internal/uploader"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "Rehearse API base URL")
	token := flag.String("token", os.Getenv("REHEARSE_TOKEN"), "bearer token")
	folderID := flag.String("folder", "", "destination skill folder id")
	flag.Parse()

	if *folderID == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: upload -folder <id> [-server url] [-token t] file...")
		os.Exit(2)
	}

	sources := make([]uploader.Source, 0, flag.NArg())
	for _, path := range flag.Args() {
		src, err := uploader.FileSource(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		sources = append(sources, src)
	}

	transport := &uploader.Transport{
		URL:   fmt.Sprintf("%s/api/v1/folders/%s/files", *server, *folderID),
		Token: *token,
	}

	orch := uploader.NewOrchestrator(transport, filepolicy.Default(), uploader.Options{
		OnTaskUpdate: printTask,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ids, rejected, err := orch.SubmitBatch(ctx, sources)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range rejected {
		fmt.Printf("%-30s rejected: %v\n", r.Name, r.Err)
	}

	orch.Wait()

	failed := 0
	for _, t := range orch.Tasks() {
		if t.Status != uploader.StatusCompleted {
			failed++
		}
	}
	fmt.Printf("%d uploaded, %d failed or cancelled, %d rejected\n",
		len(ids)-failed, failed, len(rejected))
	if failed > 0 || len(rejected) > 0 {
		os.Exit(1)
	}
}

func printTask(t uploader.Task) {
	switch t.Status {
	case uploader.StatusUploading:
		fmt.Printf("%-30s %3d%%\n", t.Name, t.Progress)
	case uploader.StatusCompleted:
		fmt.Printf("%-30s done (id %s)\n", t.Name, t.Result.ID)
	case uploader.StatusError:
		fmt.Printf("%-30s error: %s\n", t.Name, t.Error)
	case uploader.StatusCancelled:
		fmt.Printf("%-30s cancelled\n", t.Name)
	}
}
