// Package sketch 是目录缓存之上的查找/写入门面，对应远端 agent 的每一类
// 操作：列举实体、列举文件、按需读取内容、创建/更新工程文件、复制库示例。
//
// 约束：
//  1. 所有缓存访问都经由本包，处理器不得直接操作 tree.Cache；
//  2. 写操作只面向 projects 根，libraries 在类型层面就是只读的
//     （没有任何写方法接受根类别参数）；
//  3. 文件系统写入完成后才更新缓存，失败时既有条目原样保留。
package sketch
