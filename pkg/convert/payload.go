package convert

import (
	"context"
	"path"

	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
	"github.com/matzehuels/nugetnpm/pkg/observability"
)

// copyPayload copies the lib/ files of the node's framework into dir. A file
// that fails is logged and counted; the remaining files are still copied.
// Only cancellation stops the batch.
func (w *walk) copyPayload(ctx context.Context, node *Node, dir string, archive nuget.PackageReader) error {
	for _, group := range archive.LibItems() {
		if !group.Framework.Equal(node.Framework) {
			continue
		}
		for _, item := range group.Items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.copyFile(ctx, archive, dir, item); err != nil {
				node.CopyFailures++
				w.logger.Error("payload copy failed",
					"package", node.Identity, "file", item, "severity", "critical", "err", err)
				continue
			}
			node.Files++
		}
	}

	if node.Files > 0 {
		observability.Convert().OnPayloadCopied(ctx, node.Identity.Key(), node.Files)
	}
	w.logger.Debug("payload copied", "package", node.Identity, "files", node.Files, "failed", node.CopyFailures)
	return nil
}

func (w *walk) copyFile(ctx context.Context, archive nuget.PackageReader, dir, item string) error {
	if err := errors.ValidatePath(item); err != nil {
		return errors.Wrap(errors.ErrCodePayloadCopy, err, "unsafe archive path")
	}
	rc, err := archive.Open(item)
	if err != nil {
		return errors.Wrap(errors.ErrCodePayloadCopy, err, "open %s", item)
	}
	defer rc.Close()

	if err := w.main.WriteStream(ctx, path.Join(dir, item), rc); err != nil {
		return errors.Wrap(errors.ErrCodePayloadCopy, err, "write %s", item)
	}
	return nil
}
