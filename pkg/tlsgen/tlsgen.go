package tlsgen

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/spf13/afero"

	"github.com/dropkit/dropkit/pkg/logging"
)

const (
	keyBits  = 2048
	validity = 365 * 24 * time.Hour
)

// Ephemeral is a self-signed certificate/key pair written to temporary
// storage for the lifetime of one serving session.
type Ephemeral struct {
	CertPath string
	KeyPath  string

	fs     afero.Fs
	logger *logging.Logger
}

// Provision generates an RSA-2048 key and a self-signed SHA-256 certificate
// valid for 365 days with CN=localhost and a localhost SAN, writes both as
// PEM to temp files, and returns their paths. The caller must invoke
// Cleanup on every exit path of the serving session.
func Provision(fs afero.Fs, logger *logging.Logger) (*Ephemeral, error) {
	priv, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("generate serial number: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Country:      []string{"US"},
			Organization: []string{"dropkit"},
			CommonName:   "localhost",
		},
		NotBefore:             now,
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}

	// x509 signs RSA certs with SHA-256 by default.
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	certPath, err := writeTemp(fs, "dropkit-*.crt", &pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	if err != nil {
		return nil, fmt.Errorf("write certificate: %w", err)
	}

	keyPath, err := writeTemp(fs, "dropkit-*.key", &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	if err != nil {
		_ = fs.Remove(certPath)
		return nil, fmt.Errorf("write private key: %w", err)
	}

	logger.Debug("provisioned ephemeral TLS certificate", "cert", certPath, "key", keyPath)

	return &Ephemeral{CertPath: certPath, KeyPath: keyPath, fs: fs, logger: logger}, nil
}

// Cleanup removes the certificate and key files. Safe to call more than once.
func (e *Ephemeral) Cleanup() {
	if e == nil {
		return
	}
	for _, p := range []string{e.CertPath, e.KeyPath} {
		if p == "" {
			continue
		}
		if err := e.fs.Remove(p); err != nil {
			e.logger.Debug("failed to remove TLS artifact", "path", p, "error", err)
		}
	}
	e.CertPath, e.KeyPath = "", ""
}

func writeTemp(fs afero.Fs, pattern string, block *pem.Block) (string, error) {
	f, err := afero.TempFile(fs, "", pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := pem.Encode(f, block); err != nil {
		_ = fs.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
