package service

import (
	"context"

	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// ReconcileReport 对账结果：两侧各自多出来的部分.
type ReconcileReport struct {
	Owners int `json:"owners"`
	// DanglingFiles 元数据行存在但对象缺失的文件 ID
	DanglingFiles []uint `json:"dangling_files,omitempty"`
	// OrphanObjects 对象存在但没有元数据行的键
	OrphanObjects []string `json:"orphan_objects,omitempty"`
	// 修复模式下实际处理的数量
	RemovedRows    int `json:"removed_rows,omitempty"`
	RemovedObjects int `json:"removed_objects,omitempty"`
}

// Reconcile 逐用户比对元数据行与对象存储中的文件字节键.
// repair 为 true 时删除两侧的孤儿（缺对象的行、无行的对象）；
// 否则只报告. 文件夹标记对象不参与比对.
func (s *VaultService) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	owners, err := s.repo.Owners(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Owners: len(owners)}

	for _, owner := range owners {
		if err := s.reconcileOwner(ctx, owner, repair, report); err != nil {
			return nil, err
		}
	}

	nlog.Logger().Info().
		Int("owners", report.Owners).
		Int("dangling_files", len(report.DanglingFiles)).
		Int("orphan_objects", len(report.OrphanObjects)).
		Bool("repair", repair).
		Msg("reconcile pass finished")

	return report, nil
}

func (s *VaultService) reconcileOwner(ctx context.Context, owner string, repair bool, report *ReconcileReport) error {
	files, err := s.repo.FilesByOwner(ctx, owner)
	if err != nil {
		return err
	}

	rowKeys := make(map[string]uint, len(files))
	for _, f := range files {
		rowKeys[f.ObjectKey] = f.ID
	}

	objs, err := s.objects.ListPrefix(ctx, owner, s3c.ObjectsPrefix(owner))
	if err != nil {
		return err
	}

	objKeys := make(map[string]struct{}, len(objs))
	for _, o := range objs {
		objKeys[o.Key] = struct{}{}
	}

	var orphans []string

	for key := range objKeys {
		if _, ok := rowKeys[key]; !ok {
			orphans = append(orphans, key)
		}
	}

	for key, id := range rowKeys {
		if _, ok := objKeys[key]; ok {
			continue
		}

		report.DanglingFiles = append(report.DanglingFiles, id)

		if repair {
			if _, err := s.repo.DeleteFile(ctx, owner, id); err != nil {
				return err
			}

			report.RemovedRows++
		}
	}

	report.OrphanObjects = append(report.OrphanObjects, orphans...)

	if repair && len(orphans) > 0 {
		removed, err := s.objects.RemoveKeys(ctx, owner, orphans)
		if err != nil {
			return err
		}

		report.RemovedObjects += removed
	}

	return nil
}
