// Package store 把构建好的动画表打包进 bbolt 资源文件
//
// 文件布局：
//
//	animations/            顶层 bucket
//	  <表名>/              每张表一个嵌套 bucket
//	    <基础瓦片 ID>      大端序 uint32 -> [帧瓦片 ID, 持续毫秒] 对的序列
//
// 运行时从资源文件加载表，无需重新解析 TSX。
package store

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/decker502/tileanim/pkg/tileanim"
	bolt "go.etcd.io/bbolt"
)

var animationsBucket = []byte("animations")

// ErrTableNotFound 资源文件中不存在指定的表
var ErrTableNotFound = errors.New("animation table not found")

// Store bbolt 资源文件
type Store struct {
	db *bolt.DB
}

// Open 打开（或创建）资源文件
//
// 参数：
//   - path: 资源文件路径（如 "data/tiles.res"）
//   - readOnly: 只读打开，多个进程可以同时读取
func Open(path string, readOnly bool) (*Store, error) {
	db, err := bolt.Open(path, 0o666, &bolt.Options{
		Timeout:  time.Second,
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open resource file '%s': %w", path, err)
	}

	if !readOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(animationsBucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize resource file '%s': %w", path, err)
		}
	}

	return &Store{db: db}, nil
}

// Close 关闭资源文件
func (s *Store) Close() error {
	return s.db.Close()
}

// Path 返回资源文件路径
func (s *Store) Path() string {
	return s.db.Path()
}

// PutTable 以 name 保存动画表，同名的旧表被整体替换
func (s *Store) PutTable(name string, table *tileanim.Table) error {
	if name == "" {
		return fmt.Errorf("table name must not be empty")
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(animationsBucket)
		if root == nil {
			return fmt.Errorf("the animations bucket not found")
		}

		if root.Bucket([]byte(name)) != nil {
			if err := root.DeleteBucket([]byte(name)); err != nil {
				return err
			}
		}
		buck, err := root.CreateBucket([]byte(name))
		if err != nil {
			return err
		}

		for _, d := range table.Descriptors() {
			if d.BaseTileID < 0 || d.BaseTileID > math.MaxInt32 {
				return fmt.Errorf("tile id %d out of range", d.BaseTileID)
			}
			data, err := encodeFrames(d.Frames)
			if err != nil {
				return fmt.Errorf("tile %d: %w", d.BaseTileID, err)
			}
			if err := buck.Put(sequenceKey(d.BaseTileID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store table '%s': %w", name, err)
	}

	log.Printf("[Store] 保存动画表 '%s': %d 个序列", name, table.Len())
	return nil
}

// LoadDescriptors 读取表的原始描述符（按基础瓦片 ID 升序）
func (s *Store) LoadDescriptors(name string) ([]tileanim.SequenceDescriptor, error) {
	var descriptors []tileanim.SequenceDescriptor

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(animationsBucket)
		if root == nil {
			return ErrTableNotFound
		}
		buck := root.Bucket([]byte(name))
		if buck == nil {
			return ErrTableNotFound
		}

		return buck.ForEach(func(k, v []byte) error {
			id, err := decodeSequenceKey(k)
			if err != nil {
				return err
			}
			frames, err := decodeFrames(v)
			if err != nil {
				return fmt.Errorf("tile %d: %w", id, err)
			}
			descriptors = append(descriptors, tileanim.SequenceDescriptor{
				BaseTileID: id,
				Frames:     frames,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load table '%s': %w", name, err)
	}
	return descriptors, nil
}

// LoadTable 读取并构建动画表
func (s *Store) LoadTable(name string) (*tileanim.Table, error) {
	descriptors, err := s.LoadDescriptors(name)
	if err != nil {
		return nil, err
	}

	table, err := tileanim.Build(descriptors)
	if err != nil {
		return nil, fmt.Errorf("table '%s': %w", name, err)
	}
	return table, nil
}

// ListTables 返回资源文件中所有表名（按字节序）
func (s *Store) ListTables() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(animationsBucket)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// DeleteTable 删除表，表不存在时返回 ErrTableNotFound
func (s *Store) DeleteTable(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(animationsBucket)
		if root == nil || root.Bucket([]byte(name)) == nil {
			return ErrTableNotFound
		}
		return root.DeleteBucket([]byte(name))
	})
}
