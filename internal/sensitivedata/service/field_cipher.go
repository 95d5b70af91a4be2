package service

import (
	"fmt"

	cryptoDomain "github.com/definescope/definerails-sensitivedata/internal/crypto/domain"
	cryptoService "github.com/definescope/definerails-sensitivedata/internal/crypto/service"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// FieldCipherService implements FieldCipher.
//
// The key is derived from the master secret and the record salt on every call
// and zeroed afterwards. New fields are written with the writer codec; stored
// fields are opened with the codec named in their envelope.
type FieldCipherService struct {
	secret     *cryptoDomain.MasterSecret
	deriver    cryptoService.KeyDeriver
	serializer cryptoService.Serializer
	writer     cryptoService.CipherCodec
	readers    map[cryptoDomain.Algorithm]cryptoService.CipherCodec
}

// NewFieldCipher creates a FieldCipherService. The writer codec is always a reader.
func NewFieldCipher(
	secret *cryptoDomain.MasterSecret,
	deriver cryptoService.KeyDeriver,
	serializer cryptoService.Serializer,
	writer cryptoService.CipherCodec,
	readers ...cryptoService.CipherCodec,
) (*FieldCipherService, error) {
	if secret.IsEmpty() {
		return nil, cryptoDomain.ErrEmptyMasterSecret
	}

	byAlg := map[cryptoDomain.Algorithm]cryptoService.CipherCodec{writer.Algorithm(): writer}
	for _, reader := range readers {
		if _, ok := byAlg[reader.Algorithm()]; !ok {
			byAlg[reader.Algorithm()] = reader
		}
	}

	return &FieldCipherService{
		secret:     secret,
		deriver:    deriver,
		serializer: serializer,
		writer:     writer,
		readers:    byAlg,
	}, nil
}

// Seal implements FieldCipher.
func (f *FieldCipherService) Seal(
	store sensitivedataDomain.FieldStore,
	value any,
) (sensitivedataDomain.EncryptedField, error) {
	key, err := f.deriveKey(store)
	if err != nil {
		return sensitivedataDomain.EncryptedField{}, err
	}
	defer key.Zero()

	plain, err := f.serializer.Marshal(value)
	if err != nil {
		return sensitivedataDomain.EncryptedField{}, err
	}
	defer cryptoDomain.Zero(plain)

	envelope := cryptoDomain.Envelope{
		Version:   f.serializer.Version(),
		Algorithm: f.writer.Algorithm(),
	}
	ciphertext, iv, err := f.writer.Encrypt(plain, envelope.AssociatedData(), key)
	if err != nil {
		return sensitivedataDomain.EncryptedField{}, err
	}
	envelope.Ciphertext = ciphertext

	return sensitivedataDomain.NewEncryptedField(envelope.String(), cryptoDomain.EncodeIV(iv)), nil
}

// Open implements FieldCipher. Sentinel fields carry no ciphertext and are rejected.
// Any change to the stored slot or IV, the envelope header included, fails
// with ErrDecryptionFailed.
func (f *FieldCipherService) Open(
	store sensitivedataDomain.FieldStore,
	field sensitivedataDomain.EncryptedField,
	out any,
) error {
	if err := field.Validate(); err != nil {
		return err
	}
	if field.State() != sensitivedataDomain.FieldStateEncrypted {
		return fmt.Errorf("%w: field holds no ciphertext", cryptoDomain.ErrDecryptionFailed)
	}

	envelope, err := cryptoDomain.ParseEnvelope(*field.Ciphertext)
	if err != nil {
		return err
	}
	iv, err := cryptoDomain.DecodeIV(*field.IV)
	if err != nil {
		return err
	}

	codec, ok := f.readers[envelope.Algorithm]
	if !ok {
		return fmt.Errorf("%w: %s", cryptoDomain.ErrUnsupportedAlgorithm, envelope.Algorithm)
	}

	key, err := f.deriveKey(store)
	if err != nil {
		return err
	}
	defer key.Zero()

	plain, err := codec.Decrypt(envelope.Ciphertext, iv, envelope.AssociatedData(), key)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plain)

	// The header authenticated, so an unknown version is a genuine format
	// mismatch and not tampering.
	if envelope.Version != f.serializer.Version() {
		return fmt.Errorf("%w: %d", cryptoDomain.ErrUnsupportedFormatVersion, envelope.Version)
	}

	return f.serializer.Unmarshal(plain, out)
}

func (f *FieldCipherService) deriveKey(store sensitivedataDomain.FieldStore) (*cryptoDomain.DerivedKey, error) {
	salt := store.Salt()
	if salt == "" {
		return nil, sensitivedataDomain.ErrSaltMissing
	}
	return f.deriver.Derive(f.secret, salt)
}
