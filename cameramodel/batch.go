package cameramodel

import (
	"slices"

	"go.viam.com/cammodels/scalar"
)

// ProjectPoints transforms every point by tcw (camera from world) and projects it with the
// active model, dispatching once for the whole batch.
//
// proj and success are resized to len(p3d), reusing their capacity, and returned. Every index
// is written; proj[i] is only meaningful when success[i] is true. A failed point never stops
// the batch.
func (c GenericCamera[T]) ProjectPoints(
	p3d []Vec3[T], tcw Mat4[T], proj []Vec2[T], success []bool,
) ([]Vec2[T], []bool) {
	switch c.kind {
	case KindDoubleSphere:
		return projectPoints(c.ds, p3d, tcw, proj, success)
	case KindKannalaBrandt4:
		return projectPoints(c.kb4, p3d, tcw, proj, success)
	case KindUnified:
		return projectPoints(c.ucm, p3d, tcw, proj, success)
	case KindPinhole:
		return projectPoints(c.pinhole, p3d, tcw, proj, success)
	default:
		return projectPoints(c.eucm, p3d, tcw, proj, success)
	}
}

// ProjectHomogeneousPoints is ProjectPoints for points already in homogeneous form.
func (c GenericCamera[T]) ProjectHomogeneousPoints(
	p4d []Vec4[T], tcw Mat4[T], proj []Vec2[T], success []bool,
) ([]Vec2[T], []bool) {
	switch c.kind {
	case KindDoubleSphere:
		return projectHomogeneousPoints(c.ds, p4d, tcw, proj, success)
	case KindKannalaBrandt4:
		return projectHomogeneousPoints(c.kb4, p4d, tcw, proj, success)
	case KindUnified:
		return projectHomogeneousPoints(c.ucm, p4d, tcw, proj, success)
	case KindPinhole:
		return projectHomogeneousPoints(c.pinhole, p4d, tcw, proj, success)
	default:
		return projectHomogeneousPoints(c.eucm, p4d, tcw, proj, success)
	}
}

// UnprojectPoints unprojects every image point with the active model, dispatching once for the
// whole batch. Output handling follows ProjectPoints.
func (c GenericCamera[T]) UnprojectPoints(
	proj []Vec2[T], p3d []Vec4[T], success []bool,
) ([]Vec4[T], []bool) {
	switch c.kind {
	case KindDoubleSphere:
		return unprojectPoints(c.ds, proj, p3d, success)
	case KindKannalaBrandt4:
		return unprojectPoints(c.kb4, proj, p3d, success)
	case KindUnified:
		return unprojectPoints(c.ucm, proj, p3d, success)
	case KindPinhole:
		return unprojectPoints(c.pinhole, proj, p3d, success)
	default:
		return unprojectPoints(c.eucm, proj, p3d, success)
	}
}

func projectPoints[T scalar.Scalar[T], M pointModel[T]](
	cam M, p3d []Vec3[T], tcw Mat4[T], proj []Vec2[T], success []bool,
) ([]Vec2[T], []bool) {
	proj = resize(proj, len(p3d))
	success = resize(success, len(p3d))
	for i, p := range p3d {
		proj[i], success[i] = cam.Project(tcw.MulVec4(p.Homogeneous()))
	}
	return proj, success
}

func projectHomogeneousPoints[T scalar.Scalar[T], M pointModel[T]](
	cam M, p4d []Vec4[T], tcw Mat4[T], proj []Vec2[T], success []bool,
) ([]Vec2[T], []bool) {
	proj = resize(proj, len(p4d))
	success = resize(success, len(p4d))
	for i, p := range p4d {
		proj[i], success[i] = cam.Project(tcw.MulVec4(p))
	}
	return proj, success
}

func unprojectPoints[T scalar.Scalar[T], M pointModel[T]](
	cam M, proj []Vec2[T], p3d []Vec4[T], success []bool,
) ([]Vec4[T], []bool) {
	p3d = resize(p3d, len(proj))
	success = resize(success, len(proj))
	for i, p := range proj {
		p3d[i], success[i] = cam.Unproject(p)
	}
	return p3d, success
}

// resize returns s with length n, growing it only when its capacity is too small.
func resize[E any](s []E, n int) []E {
	return slices.Grow(s[:0], n)[:n]
}
