// Package signer signs backend login messages with a local ed25519 wallet key.
package signer

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Daskott/govnotify/utils"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var ErrUnsupportedKey = errors.New("wallet key must be an ed25519 private key")

type KeySigner struct {
	privateKey ed25519.PrivateKey
	publicKey  string
}

func NewKeySigner(privateKey ed25519.PrivateKey) (*KeySigner, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, ErrUnsupportedKey
	}

	publicKey := privateKey.Public().(ed25519.PublicKey)
	return &KeySigner{
		privateKey: privateKey,
		publicKey:  base58.Encode(publicKey),
	}, nil
}

// LoadKeyFile reads a wallet key stored either as an OKP JWK or as a
// keypair file holding the 64 secret key bytes as a JSON array.
func LoadKeyFile(path string) (*KeySigner, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read wallet key")
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		return fromKeypairBytes(data)
	}

	return fromJWK(data)
}

// GenerateKeyFile writes a new ed25519 key to path as a JWK. An existing
// file is never overwritten.
func GenerateKeyFile(path string) (*KeySigner, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	exists, err := utils.FileExist(expanded)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Errorf("%v already exists", path)
	}

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to generate wallet key")
	}

	key, err := jwk.New(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode wallet key")
	}

	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode wallet key")
	}

	err = utils.CreateDirIfNotExist(filepath.Dir(expanded))
	if err != nil {
		return nil, err
	}

	err = os.WriteFile(expanded, data, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "unable to write wallet key")
	}

	return NewKeySigner(privateKey)
}

// PublicKey returns the base58 encoded public key, i.e. the wallet address
func (s *KeySigner) PublicKey() string {
	return s.publicKey
}

func (s *KeySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ed25519.Sign(s.privateKey, message), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func fromJWK(data []byte) (*KeySigner, error) {
	key, err := jwk.ParseKey(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse wallet JWK")
	}

	var privateKey ed25519.PrivateKey
	err = key.Raw(&privateKey)
	if err != nil {
		return nil, errors.WithMessage(ErrUnsupportedKey, err.Error())
	}

	return NewKeySigner(privateKey)
}

func fromKeypairBytes(data []byte) (*KeySigner, error) {
	secret := []byte{}
	err := json.Unmarshal(data, &secret)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse wallet keypair")
	}

	return NewKeySigner(ed25519.PrivateKey(secret))
}
