package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kestrelfs/iosvault/internal/headerstore"
	"github.com/kestrelfs/iosvault/pkg/header"
)

func cmdCreate(store *headerstore.Store, args []string, out, errOut io.Writer) int {
	flagSet := newFlagSet("create", errOut)
	filePath := flagSet.String("file", "", "path to write the new header to")

	if err := flagSet.Parse(args); err != nil {
		return fail(errOut, "%v", err)
	}

	if *filePath == "" {
		return fail(errOut, "--file is required")
	}

	if exists, _ := os.Stat(*filePath); exists != nil {
		return fail(errOut, "%s already exists", *filePath)
	}

	password, err := confirmPassword(errOut)
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer password.Zero()

	suite := store.Suite()

	h, err := header.New(suite, header.AlgorithmXChaCha20Poly1305)
	if err != nil {
		return fail(errOut, "create header: %v", err)
	}

	masterKeyBytes, err := suite.RNG.Random(32)
	if err != nil {
		return fail(errOut, "generate master key: %v", err)
	}

	var masterKey header.Key
	copy(masterKey[:], masterKeyBytes)
	defer masterKey.Zero()

	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: header.StandardParams}
	if err := h.AddKeyslot(hashing, password, masterKey); err != nil {
		return fail(errOut, "add keyslot: %v", err)
	}

	if err := store.Write(*filePath, h); err != nil {
		return fail(errOut, "%v", err)
	}

	fmt.Fprintf(out, "created %s with 1 keyslot\n", *filePath)

	return 0
}

func cmdAddKeyslot(store *headerstore.Store, args []string, out, errOut io.Writer) int {
	flagSet := newFlagSet("add-keyslot", errOut)
	filePath := flagSet.String("file", "", "path to an existing header")

	if err := flagSet.Parse(args); err != nil {
		return fail(errOut, "%v", err)
	}

	if *filePath == "" {
		return fail(errOut, "--file is required")
	}

	existing, err := promptPassword("Existing password: ")
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer existing.Zero()

	newPassword, err := confirmPassword(errOut)
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer newPassword.Zero()

	exitCode := 0

	err = store.WithLock(*filePath, func() error {
		h, err := store.Read(*filePath)
		if err != nil {
			return err
		}

		masterKey, err := h.DecryptMasterKeyWithPassword(existing)
		if err != nil {
			return err
		}
		defer masterKey.Zero()

		hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: header.StandardParams}
		if err := h.AddKeyslot(hashing, newPassword, masterKey); err != nil {
			return err
		}

		return store.Write(*filePath, h)
	})
	if err != nil {
		exitCode = fail(errOut, "%v", err)
	} else {
		fmt.Fprintf(out, "added keyslot to %s\n", *filePath)
	}

	return exitCode
}

func cmdAddObject(store *headerstore.Store, args []string, out, errOut io.Writer) int {
	flagSet := newFlagSet("add-object", errOut)
	filePath := flagSet.String("file", "", "path to an existing header")
	dataPath := flagSet.String("data", "", "file whose contents become the object's plaintext")
	objectType := flagSet.String("type", "metadata", "object type: metadata or preview")

	if err := flagSet.Parse(args); err != nil {
		return fail(errOut, "%v", err)
	}

	if *filePath == "" || *dataPath == "" {
		return fail(errOut, "--file and --data are required")
	}

	var typ header.HeaderObjectType

	switch *objectType {
	case "metadata":
		typ = header.HeaderObjectTypeMetadata
	case "preview":
		typ = header.HeaderObjectTypePreview
	default:
		return fail(errOut, "unknown --type %q", *objectType)
	}

	plaintext, err := os.ReadFile(*dataPath)
	if err != nil {
		return fail(errOut, "read %s: %v", *dataPath, err)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer password.Zero()

	exitCode := 0
	objectCount := 0

	err = store.WithLock(*filePath, func() error {
		h, err := store.Read(*filePath)
		if err != nil {
			return err
		}

		masterKey, err := h.DecryptMasterKeyWithPassword(password)
		if err != nil {
			return err
		}
		defer masterKey.Zero()

		if err := h.AddObject(typ, masterKey, plaintext); err != nil {
			return err
		}

		objectCount = h.CountObjects()

		return store.Write(*filePath, h)
	})
	if err != nil {
		exitCode = fail(errOut, "%v", err)
	} else {
		fmt.Fprintf(out, "added object to %s (now %d objects)\n", *filePath, objectCount)
	}

	return exitCode
}

func cmdDecryptObject(store *headerstore.Store, args []string, out, errOut io.Writer) int {
	flagSet := newFlagSet("decrypt-object", errOut)
	filePath := flagSet.String("file", "", "path to an existing header")
	index := flagSet.Int("index", 0, "object index to decrypt")
	outPath := flagSet.String("out", "", "file to write the decrypted plaintext to")

	if err := flagSet.Parse(args); err != nil {
		return fail(errOut, "%v", err)
	}

	if *filePath == "" || *outPath == "" {
		return fail(errOut, "--file and --out are required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer password.Zero()

	h, err := store.Read(*filePath)
	if err != nil {
		return fail(errOut, "%v", err)
	}

	masterKey, err := h.DecryptMasterKeyWithPassword(password)
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer masterKey.Zero()

	plain, err := h.DecryptObject(*index, masterKey)
	if err != nil {
		return fail(errOut, "%v", err)
	}
	defer plain.Zero()

	if err := os.WriteFile(*outPath, plain.Expose(), 0o600); err != nil {
		return fail(errOut, "write %s: %v", *outPath, err)
	}

	fmt.Fprintf(out, "wrote object %d to %s\n", *index, *outPath)

	return 0
}

func cmdInspect(store *headerstore.Store, args []string, out, errOut io.Writer) int {
	flagSet := newFlagSet("inspect", errOut)
	filePath := flagSet.String("file", "", "path to an existing header")

	if err := flagSet.Parse(args); err != nil {
		return fail(errOut, "%v", err)
	}

	if *filePath == "" {
		return fail(errOut, "--file is required")
	}

	h, err := store.Read(*filePath)
	if err != nil {
		return fail(errOut, "%v", err)
	}

	fmt.Fprintf(out, "algorithm:  %d\n", h.GetAlgorithm())
	fmt.Fprintf(out, "keyslots:   %d\n", h.CountKeyslots())
	fmt.Fprintf(out, "objects:    %d\n", h.CountObjects())

	return 0
}
