// Command joinserver runs the line-protocol join server: <joinserver> <port>.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/ansochnev/join-server/internal/config"
	"github.com/ansochnev/join-server/internal/logging"
	"github.com/ansochnev/join-server/internal/session"
	"github.com/ansochnev/join-server/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: joinserver <port>")
		os.Exit(1)
	}

	port, err := config.ParsePort(os.Args[1])
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	logger := logging.New("joinserver")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		fmt.Printf("failed to listen on port %d: %v\n", port, err)
		os.Exit(1)
	}
	logger.Printf("listening on :%d", port)

	srv := session.NewServer(ln, store.NewStore(), logger)
	if err := srv.Run(); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
