package export

import (
	"caextractor/downloader/core"
	"caextractor/logging"
	"fmt"
	"os"
	"time"

	keystore "github.com/pavlo-v-chernykh/keystore-go/v4"
)

// DefaultKeystorePassword is the JDK default truststore password
const DefaultKeystorePassword = "changeit"

// KeystoreWriter collects extracted certificates into a JKS truststore
type KeystoreWriter struct {
	path     string
	password []byte
	ks       keystore.KeyStore
	added    int
}

// OpenKeystore loads the JKS keystore at path, or starts an empty one when
// the file does not exist yet. Only JKS files can be extended.
func OpenKeystore(path, password string) (*KeystoreWriter, error) {
	if password == "" {
		password = DefaultKeystorePassword
	}

	kw := &KeystoreWriter{
		path:     path,
		password: []byte(password),
		ks:       keystore.New(),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.LogDebug("📦 Creating new JKS truststore at %s", path)
		return kw, nil
	}

	format, err := DetectKeystoreFormat(path)
	if err != nil {
		return nil, core.FilesystemError("failed to detect keystore format: %w", err)
	}
	if format != FormatJKS {
		return nil, core.UsageError("keystore %s is %s, only JKS truststores can be extended", path, format)
	}

	if err := kw.load(); err != nil {
		return nil, err
	}
	logging.LogDebug("✅ Loaded existing keystore with %d entries", len(kw.ks.Aliases()))
	return kw, nil
}

func (kw *KeystoreWriter) load() error {
	f, err := os.Open(kw.path)
	if err != nil {
		return core.FilesystemError("failed to open keystore: %w", err)
	}
	defer f.Close()

	if err := kw.ks.Load(f, kw.password); err != nil {
		return core.ParseError("failed to decode keystore %s: %w", kw.path, err)
	}
	return nil
}

// Add stores der as a trusted certificate entry, replacing any entry with the same alias
func (kw *KeystoreWriter) Add(alias string, der []byte) error {
	entry := keystore.TrustedCertificateEntry{
		CreationTime: time.Now(),
		Certificate: keystore.Certificate{
			Type:    "X.509",
			Content: der,
		},
	}

	if err := kw.ks.SetTrustedCertificateEntry(alias, entry); err != nil {
		return fmt.Errorf("failed to add certificate with alias %s: %w", alias, err)
	}
	kw.added++
	return nil
}

// Added returns the number of certificates added since the keystore was opened
func (kw *KeystoreWriter) Added() int {
	return kw.added
}

// Save writes the keystore, keeping a one-time backup of a pre-existing file
func (kw *KeystoreWriter) Save() error {
	if err := kw.backup(kw.path + ".original"); err != nil {
		return core.FilesystemError("failed to backup keystore: %w", err)
	}

	f, err := os.Create(kw.path)
	if err != nil {
		return core.FilesystemError("failed to create keystore file: %w", err)
	}
	defer f.Close()

	if err := kw.ks.Store(f, kw.password); err != nil {
		return core.FilesystemError("failed to encode keystore: %w", err)
	}

	logging.LogDebug("💾 Saved %d certificate(s) to %s", kw.added, kw.path)
	return nil
}

func (kw *KeystoreWriter) backup(dst string) error {
	if _, err := os.Stat(kw.path); os.IsNotExist(err) {
		return nil
	}
	if _, err := os.Stat(dst); err == nil {
		logging.LogDebug("Backup already exists at %s, skipping", dst)
		return nil
	}

	input, err := os.ReadFile(kw.path)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	return os.WriteFile(dst, input, 0644)
}
