package mocks

//go:generate mockery --name MetadataStore --srcpkg github.com/aevon-lab/piecesync/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Store --srcpkg github.com/aevon-lab/piecesync/internal/filestore --output ./filestore --outpkg filestoremocks --with-expecter
//go:generate mockery --name Source --srcpkg github.com/aevon-lab/piecesync/internal/registry --output ./registry --outpkg registrymocks --with-expecter
