package main

import (
	"fmt"
	"os"

	"github.com/clientdesk/clientdesk-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	port := application.Cfg.Port
	fmt.Printf("Server listening on :%s\n", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Warn("Server failed", "error", err)
	}
}
