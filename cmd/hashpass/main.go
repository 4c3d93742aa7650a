package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"nexus/internal/util"
)

// hashpass prints a bcrypt hash suitable for ADMIN_PASSWORD or VIEWER_PASSWORD.
func main() {
	role := flag.String("role", "admin", "identity the hash is for (admin or viewer)")
	flag.Parse()

	var envVar string
	switch *role {
	case "admin":
		envVar = "ADMIN_PASSWORD"
	case "viewer":
		envVar = "VIEWER_PASSWORD"
	default:
		log.Fatalf("unknown role %q, expected admin or viewer", *role)
	}

	password := flag.Arg(0)
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read password: %v", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		log.Fatal("Password must not be empty")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Printf("%s='%s'\n", envVar, hash)
}
