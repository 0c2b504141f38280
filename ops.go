package fsentity

// Remove deletes a file or a whole directory tree
func Remove(entity Entity) error {
	if isNilEntity(entity) {
		return newEntityKindError(opRemove)
	}

	return entity.Remove()
}

// Rename renames entity in place and returns a freshly opened entity
// bound to the new path.
func Rename(entity Entity, newName string, overwrite bool) (Entity, error) {
	if isNilEntity(entity) {
		return nil, newEntityKindError(opRename)
	}

	if err := entity.Rename(newName, overwrite); err != nil {
		return nil, err
	}

	return entity.reopen()
}

// Copy copies source to target and returns a freshly opened entity bound
// to target.
func Copy(source Entity, target string, overwrite bool) (Entity, error) {
	if err := checkTransfer(opCopy, source, target); err != nil {
		return nil, err
	}

	copied, err := source.copyEntity(target, transferOptions(overwrite))
	if err != nil {
		return nil, err
	}

	return copied.reopen()
}

// Move moves source to target and returns a freshly opened entity bound
// to target. The source entity is invalidated.
func Move(source Entity, target string, overwrite bool) (Entity, error) {
	if err := checkTransfer(opMove, source, target); err != nil {
		return nil, err
	}

	moved, err := source.moveEntity(target, transferOptions(overwrite))
	if err != nil {
		return nil, err
	}

	return moved.reopen()
}

func checkTransfer(op string, source Entity, target string) error {
	if isNilEntity(source) {
		return newEntityKindError(op)
	}

	destination, err := canonicalPath(target)
	if err != nil {
		return err
	}

	if destination == source.Path() {
		return newSamePathError(op, destination)
	}

	return nil
}

func transferOptions(overwrite bool) *copyOptions {
	var options []CopyOption
	if overwrite {
		options = append(options, WithOverwrite())
	}

	return applyCopyOptions(options)
}
