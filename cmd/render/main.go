package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"book-harvester/pkg/catalog"
	"book-harvester/pkg/render"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})

	catalogFlag := flag.String("catalog", "catalog.json", "Path to the harvested catalog file")
	outDirFlag := flag.String("out", "site", "Output directory for rendered pages")
	pageSizeFlag := flag.Int("page-size", 20, "Entries per rendered page")
	columnsFlag := flag.Int("columns", 2, "Columns per row")
	templateFlag := flag.String("template", "", "Custom page template (default: embedded)")
	logLevelFlag := flag.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	flag.Parse()

	if level, err := logrus.ParseLevel(*logLevelFlag); err == nil {
		log.SetLevel(level)
	}

	books, err := catalog.Read(*catalogFlag)
	if err != nil {
		log.Fatalf("Read catalog: %v", err)
	}
	log.Infof("Loaded %d catalog entries from %s", len(books), *catalogFlag)

	renderer, err := render.NewRenderer(*templateFlag, log)
	if err != nil {
		log.Fatalf("Template: %v", err)
	}

	if err := renderer.RenderSite(books, *pageSizeFlag, *columnsFlag, *outDirFlag); err != nil {
		log.Fatalf("Render site: %v", err)
	}
}
