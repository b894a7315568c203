package main

import (
	"fmt"
	"io"
	"os"

	"research-assistant/internal/infra/config"
)

// runEncrypt prints an "enc:" value for config.yaml. The passphrase comes
// from RESEARCH_CONFIG_KEY, the same variable Load uses to decrypt.
func runEncrypt(args []string, out io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("usage: research-assistant encrypt <value>")
	}
	passphrase := os.Getenv("RESEARCH_CONFIG_KEY")
	if passphrase == "" {
		return fmt.Errorf("RESEARCH_CONFIG_KEY must be set")
	}

	encrypted, err := config.EncryptValue(args[0], passphrase)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "enc:"+encrypted)
	return err
}
