package checkpointer

import "fmt"

// Namer returns the file that a checkpoint taken after the given number
// of finished episodes is saved to
type Namer func(episodes int) string

// ByEpisode returns a Namer which suffixes prefix with the number of
// finished episodes, e.g. checkpoint-500.bin, so that every checkpoint
// is kept in its own file.
func ByEpisode(prefix, extension string) Namer {
	return func(episodes int) string {
		return fmt.Sprintf("%v-%d%v", prefix, episodes, extension)
	}
}

// Latest returns a Namer which always names the same file, so that only
// the most recent checkpoint is kept
func Latest(filename string) Namer {
	return func(int) string {
		return filename
	}
}
