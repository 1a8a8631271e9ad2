package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

func main() {
	// 1. Generate a random 32-byte hex string (64 chars) as the admin token
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		fmt.Println("Error generating random bytes:", err)
		os.Exit(1)
	}
	token := hex.EncodeToString(bytes)

	// 2. Output
	fmt.Println("=== New Admin Token Generated ===")
	fmt.Printf("ADMIN_TOKEN=%s\n", token)
	fmt.Println("\nExport it before starting the server:")
	fmt.Printf("export ADMIN_TOKEN=%s\n", token)
	fmt.Println("\n=== Curl Example ===")
	fmt.Printf("curl -v -X POST http://localhost:3001/api/products \\\n  -H \"X-Admin-Token: %s\" \\\n  -F title=Widget -F price=19.99\n", token)
}
