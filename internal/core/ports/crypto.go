package ports

// Encryptor seals and opens sensitive text fields at the storage boundary.
// Implementations must be safe for concurrent use; adapters share one
// instance across all requests.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
