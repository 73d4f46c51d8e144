package push

import (
	"log"
	"os"

	"github.com/SherClockHolmes/webpush-go"
)

const defaultTTL = 30 // seconds the push service keeps an undelivered message

// Config holds the process-wide VAPID credentials. It is built once at
// startup and injected into the sender; the private key never leaves the
// process, the public key is served to clients verbatim.
type Config struct {
	Subject    string // contact URI, e.g. mailto:admin@example.com
	PublicKey  string
	PrivateKey string
	TTL        int
}

// LoadConfig reads VAPID credentials from the environment. Missing keys are
// generated and printed so they can be persisted in .env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Subject:    os.Getenv("VAPID_SUBJECT"),
		PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		TTL:        defaultTTL,
	}

	if cfg.Subject == "" {
		cfg.Subject = "mailto:admin@example.com"
	}

	if cfg.PrivateKey == "" || cfg.PublicKey == "" {
		log.Println("VAPID keys not found in environment. Generating new keys...")
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return Config{}, err
		}
		cfg.PrivateKey = privateKey
		cfg.PublicKey = publicKey
		log.Printf("Generated VAPID Keys:\nVAPID_PRIVATE_KEY=%s\nVAPID_PUBLIC_KEY=%s\n(Add these to your .env file to persist them)", privateKey, publicKey)
	}

	return cfg, nil
}
