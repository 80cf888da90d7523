package checkpointer

import "encoding"

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   encoding.BinaryMarshaler
	filename Namer
}

// NewNEpisode returns a checkpointer that checkpoints object every n
// finished episodes to the file named by filename. If n <= 0, nothing
// is ever checkpointed.
//
//	c := NewNEpisode(500, table, ByEpisode("results/checkpoint", ".bin"))
func NewNEpisode(n int, object encoding.BinaryMarshaler,
	filename Namer) Checkpointer {
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the tracked object if the number of finished
// episodes is a multiple of the checkpointing interval
func (n *nEpisode) Checkpoint(episodes int) error {
	if n.interval <= 0 || episodes == 0 || episodes%n.interval != 0 {
		return nil
	}
	return save(n.filename(episodes), n.object)
}
