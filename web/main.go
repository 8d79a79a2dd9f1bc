package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/df07/go-weekend-raytracer/web/server"
)

//go:embed static
var staticFiles embed.FS

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of .json scene files")
	flag.Parse()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Error loading static files: %v", err)
	}

	webServer := server.NewServer(*port, *scenesDir, static)

	log.Printf("Weekend Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
